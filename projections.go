package futures

// Projections reinterpret the source's failure or timeout outcome as their
// own success. Both preserve the source's execution context and timeout
// configuration, like any derived future.

func (f *future[T]) Failed() Future[error] {
	return transform(f, func(r Result[T], p *Promise[error]) {
		switch {
		case r.Succeeded():
			p.Fail(NotFailedError{Value: r.Value()})
		case r.TimedOut():
			p.Fail(NotFailedError{TimedOut: true})
		default:
			p.Fulfill(r.Cause())
		}
	})
}

func (f *future[T]) Expired() Future[*TimeoutError] {
	return transform(f, func(r Result[T], p *Promise[*TimeoutError]) {
		switch {
		case r.TimedOut():
			p.Fulfill(f.timeoutError(r.Cause()))
		case r.Succeeded():
			p.Fail(NotTimedOutError{Value: r.Value()})
		default:
			p.Fail(NotTimedOutError{Cause: r.Cause()})
		}
	})
}
