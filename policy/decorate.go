package policy

// Rejected is the error returned by a decorated function when the
// policy turns the call away. It carries the original request
// unconsumed so the caller can retry, queue, or discard it; recover it
// with errors.As.
type Rejected[Req any] struct {
	Req Req
}

func (*Rejected[Req]) Error() string {
	return "request rejected by admission policy"
}

// Decorate wraps a unit of work with an admission policy. The returned
// function consults the policy exactly once per call: if admitted it
// invokes f and returns the result; if rejected it returns a
// *Rejected[Req] holding the request, and f is not invoked at all.
func Decorate[Req, Resp any](p Policy, f func(Req) Resp) func(Req) (Resp, error) {
	return func(req Req) (Resp, error) {
		if !p.Allow() {
			var zero Resp

			return zero, &Rejected[Req]{Req: req}
		}

		return f(req), nil
	}
}
