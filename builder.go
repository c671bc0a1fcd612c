package mediator

import (
	"context"
	"fmt"
	"slices"
)

// BuilderFlow is implemented by builders whose Build cannot fail.
type BuilderFlow[M any] interface {
	Build() M
}

// TryBuilderFlow is implemented by builders that validate required
// dependencies before producing M.
type TryBuilderFlow[M any] interface {
	Build() (M, error)
}

var (
	_ BuilderFlow[*BasicMediator[struct{}]]                     = (*Builder[struct{}])(nil)
	_ BuilderFlow[*BasicAsyncMediator[struct{}]]                = (*AsyncBuilder[struct{}])(nil)
	_ TryBuilderFlow[*CxAwareMediator[struct{}, struct{}]]      = (*CxAwareBuilder[struct{}, struct{}])(nil)
	_ TryBuilderFlow[*CxAwareAsyncMediator[struct{}, struct{}]] = (*CxAwareAsyncBuilder[struct{}, struct{}])(nil)
)

// assembly holds the components shared by every builder flavour.
type assembly[Ev any] struct {
	listeners  []Listener[Ev]
	middleware []Middleware
	consumed   bool
}

func (a *assembly[Ev]) check() {
	if a.consumed {
		panic(ErrBuilderConsumed)
	}
}

func (a *assembly[Ev]) addListener(l Listener[Ev]) {
	a.check()
	if l == nil {
		panic("mediator: nil listener")
	}
	a.listeners = append(a.listeners, l)
}

func (a *assembly[Ev]) use(middleware []Middleware) {
	a.check()
	for _, mw := range middleware {
		if mw == nil {
			panic("mediator: nil middleware")
		}
	}
	a.middleware = append(a.middleware, middleware...)
}

// consume marks the builder as used and hands over its components.
func (a *assembly[Ev]) consume() (listenerRegistry[Ev], []Middleware) {
	a.check()
	a.consumed = true

	listeners, middleware := slices.Clip(a.listeners), slices.Clip(a.middleware)
	a.listeners, a.middleware = nil, nil
	return listeners, middleware
}

// Builder assembles a BasicMediator.
//
// Builder methods modify the builder in place and return it for chaining.
// Build consumes the builder; using it afterwards panics with
// ErrBuilderConsumed.
type Builder[Ev any] struct {
	assembly[Ev]
	handlers handlerSet[basicHandler[Ev]]
}

// NewBuilder creates a Builder with no listeners and no handlers.
func NewBuilder[Ev any]() *Builder[Ev] {
	return &Builder[Ev]{handlers: newHandlerSet[basicHandler[Ev]]()}
}

// AddListener appends l to the listeners notified by Next.
func (b *Builder[Ev]) AddListener(l Listener[Ev]) *Builder[Ev] {
	b.addListener(l)
	return b
}

// AddListenerFunc appends fn to the listeners notified by Next.
func (b *Builder[Ev]) AddListenerFunc(fn func(event Ev)) *Builder[Ev] {
	return b.AddListener(NewListenerFunc(fn))
}

// Use appends middleware wrapped around every Send.
func (b *Builder[Ev]) Use(middleware ...Middleware) *Builder[Ev] {
	b.use(middleware)
	return b
}

// Build returns a BasicMediator with the accumulated listeners and an empty
// event queue.
func (b *Builder[Ev]) Build() *BasicMediator[Ev] {
	listeners, middleware := b.consume()

	m := newBasicMediator(listeners)
	m.handlers, b.handlers = b.handlers, handlerSet[basicHandler[Ev]]{}
	m.middleware = middleware
	return m
}

// Register adds the handler for requests of type Req.
//
// Panics with ErrDuplicateHandler if a handler for Req is already
// registered, and with ErrBuilderConsumed after Build.
//
// Example:
//
//	Register(b, func(ctx context.Context, m *BasicMediator[Event], req Ping) error {
//	    m.Publish(Pong{})
//	    return nil
//	})
func Register[Req, Ev any](b *Builder[Ev], handler RequestHandler[Req, Ev]) *Builder[Ev] {
	b.check()
	if handler == nil {
		panic(fmt.Sprintf("mediator: nil handler for request type %s", typeOf[Req]()))
	}
	b.handlers.add(typeOf[Req](), func(ctx context.Context, m *BasicMediator[Ev], req any) error {
		return handler(ctx, m, mustCast[Req](req))
	})
	return b
}

// AsyncBuilder assembles a BasicAsyncMediator. See Builder.
type AsyncBuilder[Ev any] struct {
	assembly[Ev]
	handlers handlerSet[asyncHandler[Ev]]
}

// NewAsyncBuilder creates an AsyncBuilder with no listeners and no handlers.
func NewAsyncBuilder[Ev any]() *AsyncBuilder[Ev] {
	return &AsyncBuilder[Ev]{handlers: newHandlerSet[asyncHandler[Ev]]()}
}

// AddListener appends l to the listeners notified by Next.
func (b *AsyncBuilder[Ev]) AddListener(l Listener[Ev]) *AsyncBuilder[Ev] {
	b.addListener(l)
	return b
}

// AddListenerFunc appends fn to the listeners notified by Next.
func (b *AsyncBuilder[Ev]) AddListenerFunc(fn func(event Ev)) *AsyncBuilder[Ev] {
	return b.AddListener(NewListenerFunc(fn))
}

// Use appends middleware wrapped around every Send.
func (b *AsyncBuilder[Ev]) Use(middleware ...Middleware) *AsyncBuilder[Ev] {
	b.use(middleware)
	return b
}

// Build returns a BasicAsyncMediator with the accumulated listeners and an
// empty event queue.
func (b *AsyncBuilder[Ev]) Build() *BasicAsyncMediator[Ev] {
	listeners, middleware := b.consume()

	m := newBasicAsyncMediator(listeners)
	m.handlers, b.handlers = b.handlers, handlerSet[asyncHandler[Ev]]{}
	m.middleware = middleware
	return m
}

// RegisterAsync adds the handler for requests of type Req. See Register.
func RegisterAsync[Req, Ev any](b *AsyncBuilder[Ev], handler AsyncRequestHandler[Req, Ev]) *AsyncBuilder[Ev] {
	b.check()
	if handler == nil {
		panic(fmt.Sprintf("mediator: nil handler for request type %s", typeOf[Req]()))
	}
	b.handlers.add(typeOf[Req](), func(ctx context.Context, m *BasicAsyncMediator[Ev], req any) error {
		return handler(ctx, m, mustCast[Req](req))
	})
	return b
}

// CxAwareBuilder assembles a CxAwareMediator. A context must be supplied
// with AddContext before Build succeeds.
type CxAwareBuilder[Cx, Ev any] struct {
	assembly[Ev]
	handlers handlerSet[cxAwareHandler[Cx, Ev]]
	cx       Cx
	hasCx    bool
}

// NewCxAwareBuilder creates a CxAwareBuilder with no listeners, no handlers
// and no context.
func NewCxAwareBuilder[Cx, Ev any]() *CxAwareBuilder[Cx, Ev] {
	return &CxAwareBuilder[Cx, Ev]{handlers: newHandlerSet[cxAwareHandler[Cx, Ev]]()}
}

// AddListener appends l to the listeners notified by Next.
func (b *CxAwareBuilder[Cx, Ev]) AddListener(l Listener[Ev]) *CxAwareBuilder[Cx, Ev] {
	b.addListener(l)
	return b
}

// AddListenerFunc appends fn to the listeners notified by Next.
func (b *CxAwareBuilder[Cx, Ev]) AddListenerFunc(fn func(event Ev)) *CxAwareBuilder[Cx, Ev] {
	return b.AddListener(NewListenerFunc(fn))
}

// Use appends middleware wrapped around every Send.
func (b *CxAwareBuilder[Cx, Ev]) Use(middleware ...Middleware) *CxAwareBuilder[Cx, Ev] {
	b.use(middleware)
	return b
}

// AddContext stores the context handed to every handler. Calling it again
// replaces the previous context.
func (b *CxAwareBuilder[Cx, Ev]) AddContext(cx Cx) *CxAwareBuilder[Cx, Ev] {
	b.check()
	b.cx, b.hasCx = cx, true
	return b
}

// Build returns the CxAwareMediator, or ErrNoContext if AddContext was
// never called. The builder is consumed either way.
func (b *CxAwareBuilder[Cx, Ev]) Build() (*CxAwareMediator[Cx, Ev], error) {
	listeners, middleware := b.consume()

	var zero Cx
	cx, hasCx := b.cx, b.hasCx
	handlers := b.handlers
	b.cx, b.handlers = zero, handlerSet[cxAwareHandler[Cx, Ev]]{}

	if !hasCx {
		return nil, ErrNoContext
	}

	return &CxAwareMediator[Cx, Ev]{
		basic:      newBasicMediator(listeners),
		cx:         cx,
		handlers:   handlers,
		middleware: middleware,
	}, nil
}

// RegisterCx adds the context-aware handler for requests of type Req.
// See Register.
func RegisterCx[Cx, Req, Ev any](b *CxAwareBuilder[Cx, Ev], handler CxAwareRequestHandler[Cx, Req, Ev]) *CxAwareBuilder[Cx, Ev] {
	b.check()
	if handler == nil {
		panic(fmt.Sprintf("mediator: nil handler for request type %s", typeOf[Req]()))
	}
	b.handlers.add(typeOf[Req](), func(ctx context.Context, m *CxAwareMediator[Cx, Ev], req any, cx Cx) error {
		return handler(ctx, m, mustCast[Req](req), cx)
	})
	return b
}

// CxAwareAsyncBuilder assembles a CxAwareAsyncMediator. A context must be
// supplied with AddContext before Build succeeds.
type CxAwareAsyncBuilder[Cx, Ev any] struct {
	assembly[Ev]
	handlers handlerSet[cxAwareAsyncHandler[Cx, Ev]]
	cx       Cx
	hasCx    bool
}

// NewCxAwareAsyncBuilder creates a CxAwareAsyncBuilder with no listeners,
// no handlers and no context.
func NewCxAwareAsyncBuilder[Cx, Ev any]() *CxAwareAsyncBuilder[Cx, Ev] {
	return &CxAwareAsyncBuilder[Cx, Ev]{handlers: newHandlerSet[cxAwareAsyncHandler[Cx, Ev]]()}
}

// AddListener appends l to the listeners notified by Next.
func (b *CxAwareAsyncBuilder[Cx, Ev]) AddListener(l Listener[Ev]) *CxAwareAsyncBuilder[Cx, Ev] {
	b.addListener(l)
	return b
}

// AddListenerFunc appends fn to the listeners notified by Next.
func (b *CxAwareAsyncBuilder[Cx, Ev]) AddListenerFunc(fn func(event Ev)) *CxAwareAsyncBuilder[Cx, Ev] {
	return b.AddListener(NewListenerFunc(fn))
}

// Use appends middleware wrapped around every Send.
func (b *CxAwareAsyncBuilder[Cx, Ev]) Use(middleware ...Middleware) *CxAwareAsyncBuilder[Cx, Ev] {
	b.use(middleware)
	return b
}

// AddContext stores the context handed to every handler. Calling it again
// replaces the previous context.
func (b *CxAwareAsyncBuilder[Cx, Ev]) AddContext(cx Cx) *CxAwareAsyncBuilder[Cx, Ev] {
	b.check()
	b.cx, b.hasCx = cx, true
	return b
}

// Build returns the CxAwareAsyncMediator, or ErrNoContext if AddContext was
// never called. The builder is consumed either way.
func (b *CxAwareAsyncBuilder[Cx, Ev]) Build() (*CxAwareAsyncMediator[Cx, Ev], error) {
	listeners, middleware := b.consume()

	var zero Cx
	cx, hasCx := b.cx, b.hasCx
	handlers := b.handlers
	b.cx, b.handlers = zero, handlerSet[cxAwareAsyncHandler[Cx, Ev]]{}

	if !hasCx {
		return nil, ErrNoContext
	}

	return &CxAwareAsyncMediator[Cx, Ev]{
		basic:      newBasicAsyncMediator(listeners),
		cxLock:     newLock(),
		cx:         cx,
		handlers:   handlers,
		middleware: middleware,
	}, nil
}

// RegisterCxAsync adds the context-aware handler for requests of type Req.
// See Register.
func RegisterCxAsync[Cx, Req, Ev any](b *CxAwareAsyncBuilder[Cx, Ev], handler CxAwareAsyncRequestHandler[Cx, Req, Ev]) *CxAwareAsyncBuilder[Cx, Ev] {
	b.check()
	if handler == nil {
		panic(fmt.Sprintf("mediator: nil handler for request type %s", typeOf[Req]()))
	}
	b.handlers.add(typeOf[Req](), func(ctx context.Context, m *CxAwareAsyncMediator[Cx, Ev], req any, cx Cx) error {
		return handler(ctx, m, mustCast[Req](req), cx)
	})
	return b
}
