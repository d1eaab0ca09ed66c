package sigma

// OperationObserver stands in for the source's process-wide cost
// accountant (see design notes on global mutable state). It is not on
// the verification correctness path; the parser calls it once per node
// visited so a caller can meter proof-tree traversal if it wants to.
type OperationObserver interface {
	OnNode(kind string, depth int)
}

type noopObserver struct{}

func (noopObserver) OnNode(kind string, depth int) {}

// DefaultObserver is the no-op observer used when none is supplied.
var DefaultObserver OperationObserver = noopObserver{}
