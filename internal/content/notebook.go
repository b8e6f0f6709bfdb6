package content

// Notebook is one aggregation session: the registry of content types, the
// feed the captures commit into and the dispatcher that renders it.
type Notebook struct {
	Registry   *Registry
	Store      *Store
	Dispatcher *Dispatcher
}

// NewNotebook builds a session over r. A nil r uses the built-in types.
func NewNotebook(r *Registry, opts ...StoreOption) *Notebook {
	if r == nil {
		r = NewDefaultRegistry()
	}
	return &Notebook{
		Registry:   r,
		Store:      NewStore(opts...),
		Dispatcher: NewDispatcher(r),
	}
}

func (n *Notebook) BeginCapture(tag Tag) (*Capture, error) {
	return n.Registry.BeginCapture(tag, n.Store)
}

func (n *Notebook) Blocks() []Block { return n.Store.All() }

func (n *Notebook) Render(b Block) View { return n.Dispatcher.Render(b) }

// Feed renders every block in display order.
func (n *Notebook) Feed() []View { return n.Dispatcher.RenderAll(n.Store.All()) }
