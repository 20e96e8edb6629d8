package repository

// Collection names published on every change.
const (
	CollectionProducts = "products"
	CollectionSales    = "sales"
	CollectionLogs     = "logs"
)

// Notifier is told after a collection's snapshot changed. Implementations
// must not block.
type Notifier interface {
	Notify(collection string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(collection string)

func (f NotifierFunc) Notify(collection string) { f(collection) }

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
