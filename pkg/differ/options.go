package differ

// Option configures a rendering.
type Option func(*options)

type options struct {
	fromLabel string
	toLabel   string
	title     string
	context   int
}

func defaultOptions() *options {
	return &options{
		fromLabel: "remote",
		toLabel:   "local",
		title:     "redpush diff",
		context:   -1,
	}
}

func newOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// contextOr returns the configured context, or def when unset.
func (o *options) contextOr(def int) int {
	if o.context < 0 {
		return def
	}
	return o.context
}

// WithLabels names the old and new sides.
func WithLabels(from, to string) Option {
	return func(o *options) {
		o.fromLabel = from
		o.toLabel = to
	}
}

// WithTitle sets the HTML document title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithContext limits output to n unchanged lines around each change.
// The HTML renderer shows whole files unless set; unified output defaults
// to 3 lines.
func WithContext(n int) Option {
	return func(o *options) {
		o.context = n
	}
}
