package futures

import "errors"

// Combinators are one generic layer over the OnComplete primitive: each one
// creates a fresh promise, registers a single internal callback on the
// source, and returns the new promise's future. The derived promise inherits
// the source's execution context, timeout configuration and classifier, but
// never arms a timer of its own; a timeout on the source propagates through
// the chain like any other failure.

func derive[S, T any](src Future[T]) *Promise[S] {
	var opt promiseOptions
	if impl, ok := src.(*future[T]); ok {
		opt = impl.cell.opts
	} else {
		opt = _DefaultPromiseOptions
		opt.ExecutionContext = src.ExecutionContext()
		opt.Timeout = src.Timeout()
	}
	opt.Timer = nil
	p := newPromise[S](opt)
	if deadline, ok := src.Deadline(); ok {
		p.cell.deadline = deadline
	}
	return p
}

func transform[T, S any](src Future[T], apply func(r Result[T], p *Promise[S])) Future[S] {
	p := derive[S](src)
	src.OnComplete(func(r Result[T]) {
		apply(r, p)
	})
	return p.Future()
}

// contain runs fn, completing p according to the classification policy when
// fn panics, and failing p when fn returns an error. Fatal panics are
// re-raised after p is completed with a PanicError wrapper, so downstream
// observers are never left pending.
func contain[S any](p *Promise[S], fn func() error) {
	defer func() {
		cause := recover()
		if cause == nil {
			return
		}
		switch p.cell.opts.Classifier(cause) {
		case ClassFatal:
			p.Fail(PanicError{Cause: cause})
			panic(cause)
		case ClassTimeout:
			p.Fail(timeoutCause(cause, p.cell.opts))
		default:
			if err, ok := cause.(error); ok {
				p.Fail(err)
			} else {
				p.Fail(PanicError{Cause: cause})
			}
		}
	}()

	if err := fn(); err != nil {
		p.Fail(err)
	}
}

func timeoutCause(cause any, opts promiseOptions) error {
	if err, ok := cause.(error); ok {
		var te *TimeoutError
		if errors.As(err, &te) {
			return te
		}
	}
	return &TimeoutError{After: opts.Timeout}
}

// Map transforms the value of f on success. Failure and timeout pass through
// unchanged; an error or contained panic from fn becomes the result's
// failure.
func Map[T, S any](f Future[T], fn func(val T) (S, error)) Future[S] {
	return transform(f, func(r Result[T], p *Promise[S]) {
		if !r.Succeeded() {
			p.Fail(r.Cause())
			return
		}
		contain(p, func() error {
			val, err := fn(r.Value())
			if err != nil {
				return err
			}
			p.Fulfill(val)
			return nil
		})
	})
}

// FlatMap sequences f with an asynchronous continuation: on success the
// inner future's eventual outcome becomes the result's outcome. On source
// failure fn is never invoked.
func FlatMap[T, S any](f Future[T], fn func(val T) (Future[S], error)) Future[S] {
	return transform(f, func(r Result[T], p *Promise[S]) {
		if !r.Succeeded() {
			p.Fail(r.Cause())
			return
		}
		contain(p, func() error {
			inner, err := fn(r.Value())
			if err != nil {
				return err
			}
			if inner == nil {
				return errors.New("flat map returned a nil future")
			}
			inner.OnComplete(func(ir Result[S]) {
				if ir.Succeeded() {
					p.Fulfill(ir.Value())
				} else {
					p.Fail(ir.Cause())
				}
			})
			return nil
		})
	})
}

// Filter forwards the value when pred holds and fails with a PredicateError
// carrying the rejected value otherwise. Failure passes through unchanged.
func Filter[T any](f Future[T], pred func(val T) bool) Future[T] {
	return transform(f, func(r Result[T], p *Promise[T]) {
		if !r.Succeeded() {
			p.Fail(r.Cause())
			return
		}
		contain(p, func() error {
			if !pred(r.Value()) {
				return PredicateError{Value: r.Value()}
			}
			p.Fulfill(r.Value())
			return nil
		})
	})
}

// Recover converts a matched failure into a success via fn. Unmatched
// failures propagate unchanged and success is never touched. Unlike
// OnFailure, Recover also sees timeout causes; match them explicitly with
// MatchIs(ErrTimedOut) when that is intended.
func Recover[T any](f Future[T], match Matcher, fn func(cause error) (T, error)) Future[T] {
	return transform(f, func(r Result[T], p *Promise[T]) {
		if r.Succeeded() {
			p.Fulfill(r.Value())
			return
		}
		cause := r.Cause()
		if match != nil && !match(cause) {
			p.Fail(cause)
			return
		}
		contain(p, func() error {
			val, err := fn(cause)
			if err != nil {
				return err
			}
			p.Fulfill(val)
			return nil
		})
	})
}
