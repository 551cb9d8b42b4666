package bridge

import "github.com/asp-lang/asp"

// pin scopes an owned embedded reference so it is released on every exit
// path. Attach with hold, arrange release with defer, and call detach to
// hand the reference onward on the success path.
type pin struct {
	obj *asp.Object
}

func hold(o *asp.Object) *pin {
	return &pin{obj: o}
}

// release drops the held reference; safe to call after detach.
func (p *pin) release() {
	if p.obj != nil {
		p.obj.DecRef()
		p.obj = nil
	}
}

// detach hands the reference to the caller and disarms the pin.
func (p *pin) detach() *asp.Object {
	o := p.obj
	p.obj = nil
	return o
}
