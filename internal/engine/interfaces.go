package engine

// Progress receives updates while transactions are categorized.
type Progress interface {
	Start(total int)
	Advance()
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int) {}
func (noopProgress) Advance() {}
func (noopProgress) Finish() {}
