package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/storefront-labs/catalog/app/catalog"
	"github.com/storefront-labs/catalog/app/orders"
	"go.uber.org/zap"
)

// Catalog is the read side the query fields resolve against.
type Catalog interface {
	ListCategories(ctx context.Context) []catalog.Category
	GetCategory(ctx context.Context, name string) (*catalog.Category, error)
	ListProducts(ctx context.Context, category string) []catalog.Product
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in orders.PlaceOrderInput) orders.Result
}

type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

type Error struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// Response is the result envelope. Data is absent when the document could not
// be executed at all.
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

type resolver func(ctx context.Context, f Field, args map[string]any) (any, error)

// Executor runs the root fields of a document against the catalog and order
// services.
type Executor struct {
	catalog Catalog
	orders  OrderPlacer
	log     *zap.Logger
	roots   map[string]map[string]resolver
}

func NewExecutor(c Catalog, o OrderPlacer, log *zap.Logger) *Executor {
	e := &Executor{catalog: c, orders: o, log: log.Named("graphql")}
	e.roots = map[string]map[string]resolver{
		"Query": {
			"categories":       e.categories,
			"category":         e.category,
			"categoryProducts": e.categoryProducts,
			"products":         e.products,
			"product":          e.product,
		},
		"Mutation": {
			"placeOrder": e.placeOrder,
		},
	}
	return e
}

// Execute validates the document against the schema and resolves each root
// field independently: a failing field is reported in Errors and set to null
// without affecting its siblings.
func (e *Executor) Execute(ctx context.Context, req Request) Response {
	op, errs := prepare(req)
	if len(errs) > 0 {
		return Response{Errors: errs}
	}

	var resp Response
	data := newObject(len(op.Selections))
	for _, f := range op.Selections {
		if f.Name == "__typename" {
			data.set(f.Key(), op.RootType)
			continue
		}

		resolve, ok := e.roots[op.RootType][f.Name]
		if !ok {
			resp.Errors = append(resp.Errors, Error{
				Message: fmt.Sprintf("Cannot query field %q on type %q.", f.Name, op.RootType),
				Path:    []string{f.Key()},
			})
			data.set(f.Key(), nil)
			continue
		}

		v, err := e.resolve(ctx, resolve, f)
		if err != nil {
			e.log.Error("resolve field failed", zap.String("field", f.Name), zap.Error(err))
			resp.Errors = append(resp.Errors, Error{Message: err.Error(), Path: []string{f.Key()}})
			data.set(f.Key(), nil)
			continue
		}
		data.set(f.Key(), shape(v, f.Selections, f.Type))
	}
	resp.Data = data
	return resp
}

func (e *Executor) resolve(ctx context.Context, resolve resolver, f Field) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("resolver panicked",
				zap.String("field", f.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			v, err = nil, fmt.Errorf("internal error resolving %q", f.Name)
		}
	}()

	out, err := resolve(ctx, f, f.Args)
	if err != nil {
		return nil, err
	}
	return toTree(out)
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func (e *Executor) categoryValue(ctx context.Context, name string, f Field) map[string]any {
	v := map[string]any{"name": name}
	if f.Selects("products") {
		v["products"] = e.catalog.ListProducts(ctx, name)
	}
	return v
}

func (e *Executor) categories(ctx context.Context, f Field, _ map[string]any) (any, error) {
	list := e.catalog.ListCategories(ctx)
	out := make([]map[string]any, len(list))
	for i, c := range list {
		out[i] = e.categoryValue(ctx, c.Name, f)
	}
	return out, nil
}

func (e *Executor) category(ctx context.Context, f Field, args map[string]any) (any, error) {
	c, err := e.catalog.GetCategory(ctx, stringArg(args, "name"))
	if err != nil {
		return nil, nil
	}
	return e.categoryValue(ctx, c.Name, f), nil
}

func (e *Executor) categoryProducts(ctx context.Context, _ Field, args map[string]any) (any, error) {
	return e.catalog.ListProducts(ctx, stringArg(args, "categoryName")), nil
}

func (e *Executor) products(ctx context.Context, _ Field, args map[string]any) (any, error) {
	return e.catalog.ListProducts(ctx, stringArg(args, "category")), nil
}

func (e *Executor) product(ctx context.Context, _ Field, args map[string]any) (any, error) {
	p, err := e.catalog.GetProduct(ctx, stringArg(args, "id"))
	if err != nil {
		return nil, nil
	}
	return p, nil
}

func (e *Executor) placeOrder(ctx context.Context, _ Field, args map[string]any) (any, error) {
	var in orders.PlaceOrderInput
	raw, err := json.Marshal(args["order"])
	if err == nil {
		err = json.Unmarshal(raw, &in)
	}
	if err != nil {
		e.log.Info("undecodable order input", zap.Error(err))
		return orders.Result{Message: orders.MessageInvalid}, nil
	}
	return e.orders.PlaceOrder(ctx, in), nil
}
