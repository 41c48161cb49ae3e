package hom

// SetMinParallel lowers the parallel threshold so small fixtures exercise
// the worker path.
func (e *Engine) SetMinParallel(n uint64) { e.minParallel = n }
