package store

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"productkart/internal/client"
	"productkart/internal/models"
	"productkart/pkg/localstore"
)

// ErrPasswordMismatch is the client-side validation failure raised when
// a registration's password confirmation does not match. It is caught
// before any request is dispatched.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Store wires the request-lifecycle slices, the API gateway and the
// persistence bridge into one state container. Each operation method
// drives exactly one slice through
// begin → API call → succeed/fail, so screens can render
// {loading, error, data} deterministically at every point.
type Store struct {
	api     *client.Client
	session *Session
	cart    *Cart

	productList    *Slice[[]models.Product]
	productDetails *Slice[*models.Product]
	productCreate  *Slice[*models.Product]
	productUpdate  *Slice[*models.Product]
	productDelete  *Slice[struct{}]

	user  *Slice[*models.Session]
	users *Slice[[]models.User]

	orderCreate  *Slice[*models.Order]
	orderDetails *Slice[*models.Order]
	orderPay     *Slice[*models.Order]
	orderDeliver *Slice[*models.Order]
	myOrders     *Slice[[]models.Order]
	orders       *Slice[[]models.Order]
}

// New creates a Store talking to the API at baseURL, hydrating session
// and cart from storage. httpClient may be nil for a default.
func New(baseURL string, storage *localstore.Store, httpClient *http.Client) *Store {
	s := &Store{
		session: NewSession(storage),
		cart:    NewCart(storage),

		productList:    NewSlice([]models.Product{}),
		productDetails: NewSlice[*models.Product](nil),
		productCreate:  NewSlice[*models.Product](nil),
		productUpdate:  NewSlice[*models.Product](nil),
		productDelete:  NewSlice(struct{}{}),

		user:  NewSlice[*models.Session](nil),
		users: NewSlice([]models.User{}),

		orderCreate:  NewSlice[*models.Order](nil),
		orderDetails: NewSlice[*models.Order](nil),
		orderPay:     NewSlice[*models.Order](nil),
		orderDeliver: NewSlice[*models.Order](nil),
		myOrders:     NewSlice([]models.Order{}),
		orders:       NewSlice([]models.Order{}),
	}
	s.api = client.New(baseURL, s.session.Token, httpClient)
	return s
}

// --- Session operations ---

// Login authenticates and, on success, installs and persists the
// session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	t := s.user.Begin()
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.user.Fail(t, err.Error())
		return err
	}
	if err := s.session.Set(session); err != nil {
		log.Printf("Warning: failed to persist session: %v", err)
	}
	s.user.Succeed(t, session)
	return nil
}

// Register creates an account after a client-side password confirmation
// check; a mismatch fails the slice without dispatching a request.
func (s *Store) Register(ctx context.Context, name, email, password, confirmPassword string) error {
	if password != confirmPassword {
		t := s.user.Begin()
		s.user.Fail(t, "Passwords do not match")
		return ErrPasswordMismatch
	}

	t := s.user.Begin()
	session, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.user.Fail(t, err.Error())
		return err
	}
	if err := s.session.Set(session); err != nil {
		log.Printf("Warning: failed to persist session: %v", err)
	}
	s.user.Succeed(t, session)
	return nil
}

// Logout clears the session from memory and durable storage. The server
// call is best-effort: an unreachable server cannot pin a session on
// this device.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		log.Printf("Warning: logout request failed: %v", err)
	}
	if err := s.session.Clear(); err != nil {
		return err
	}
	s.user.Replace(nil)
	s.user.Reset()
	return nil
}

// FetchProfile refreshes the session from the server.
func (s *Store) FetchProfile(ctx context.Context) error {
	t := s.user.Begin()
	session, err := s.api.Profile(ctx)
	if err != nil {
		s.user.Fail(t, err.Error())
		return err
	}
	if err := s.session.Set(session); err != nil {
		log.Printf("Warning: failed to persist session: %v", err)
	}
	s.user.Succeed(t, session)
	return nil
}

// UpdateProfile applies a partial profile update; on success the
// refreshed session is installed and persisted.
func (s *Store) UpdateProfile(ctx context.Context, update client.ProfileUpdate) error {
	t := s.user.Begin()
	session, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		s.user.Fail(t, err.Error())
		return err
	}
	if err := s.session.Set(session); err != nil {
		log.Printf("Warning: failed to persist session: %v", err)
	}
	s.user.Succeed(t, session)
	return nil
}

// FetchUsers loads the admin user list.
func (s *Store) FetchUsers(ctx context.Context) error {
	t := s.users.Begin()
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.users.Fail(t, err.Error())
		return err
	}
	if users == nil {
		users = []models.User{}
	}
	s.users.Succeed(t, users)
	return nil
}

// --- Product operations ---

// FetchProducts loads the catalog list.
func (s *Store) FetchProducts(ctx context.Context) error {
	t := s.productList.Begin()
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		s.productList.Fail(t, err.Error())
		return err
	}
	if products == nil {
		products = []models.Product{}
	}
	s.productList.Succeed(t, products)
	return nil
}

// FetchProduct loads one product's details.
func (s *Store) FetchProduct(ctx context.Context, id string) error {
	t := s.productDetails.Begin()
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		s.productDetails.Fail(t, err.Error())
		return err
	}
	s.productDetails.Succeed(t, product)
	return nil
}

// CreateProduct creates a placeholder product for the create-then-edit
// admin flow.
func (s *Store) CreateProduct(ctx context.Context) error {
	t := s.productCreate.Begin()
	product, err := s.api.CreateProduct(ctx)
	if err != nil {
		s.productCreate.Fail(t, err.Error())
		return err
	}
	s.productCreate.Succeed(t, product)
	return nil
}

// UpdateProduct saves a product edit draft.
func (s *Store) UpdateProduct(ctx context.Context, draft *models.Product) error {
	t := s.productUpdate.Begin()
	product, err := s.api.UpdateProduct(ctx, draft)
	if err != nil {
		s.productUpdate.Fail(t, err.Error())
		return err
	}
	s.productUpdate.Succeed(t, product)
	return nil
}

// DeleteProduct removes a product from the catalog.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	t := s.productDelete.Begin()
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		s.productDelete.Fail(t, err.Error())
		return err
	}
	s.productDelete.Succeed(t, struct{}{})
	return nil
}

// UploadImage pushes a product image and returns its hosted URL. The
// outcome is reported to the caller directly rather than through a
// slice, so an upload failure cannot corrupt the in-progress edit draft.
func (s *Store) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.api.UploadImage(ctx, filename, r)
}

// ProductCreateReset clears the create outcome after navigating away so
// the created draft does not re-trigger the edit flow.
func (s *Store) ProductCreateReset() {
	s.productCreate.Reset()
	s.productCreate.Replace(nil)
}

// ProductUpdateReset clears the update outcome after navigating away.
func (s *Store) ProductUpdateReset() {
	s.productUpdate.Reset()
	s.productUpdate.Replace(nil)
}

// --- Order operations ---

// PlaceOrder submits the current cart as an order. Clearing the cart
// after success is the caller's responsibility, sequenced after it has
// read the created order.
func (s *Store) PlaceOrder(ctx context.Context) error {
	t := s.orderCreate.Begin()

	items := s.cart.Items()
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, line := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Qty:       line.Qty,
		})
	}
	quote := s.cart.Quote()

	order, err := s.api.CreateOrder(ctx, &models.Order{
		Items:           orderItems,
		ShippingAddress: s.cart.ShippingAddress(),
		PaymentMethod:   s.cart.PaymentMethod(),
		ItemsPrice:      quote.ItemsPrice,
		ShippingPrice:   quote.ShippingPrice,
		TaxPrice:        quote.TaxPrice,
		TotalPrice:      quote.TotalPrice,
	})
	if err != nil {
		s.orderCreate.Fail(t, err.Error())
		return err
	}
	s.orderCreate.Succeed(t, order)
	return nil
}

// FetchOrder loads one order's details.
func (s *Store) FetchOrder(ctx context.Context, id string) error {
	t := s.orderDetails.Begin()
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		s.orderDetails.Fail(t, err.Error())
		return err
	}
	s.orderDetails.Succeed(t, order)
	return nil
}

// PayOrder marks an order paid.
func (s *Store) PayOrder(ctx context.Context, id string) error {
	t := s.orderPay.Begin()
	order, err := s.api.PayOrder(ctx, id)
	if err != nil {
		s.orderPay.Fail(t, err.Error())
		return err
	}
	s.orderPay.Succeed(t, order)
	return nil
}

// DeliverOrder marks an order delivered (admin).
func (s *Store) DeliverOrder(ctx context.Context, id string) error {
	t := s.orderDeliver.Begin()
	order, err := s.api.DeliverOrder(ctx, id)
	if err != nil {
		s.orderDeliver.Fail(t, err.Error())
		return err
	}
	s.orderDeliver.Succeed(t, order)
	return nil
}

// FetchMyOrders loads the signed-in user's order history.
func (s *Store) FetchMyOrders(ctx context.Context) error {
	t := s.myOrders.Begin()
	orders, err := s.api.ListMyOrders(ctx)
	if err != nil {
		s.myOrders.Fail(t, err.Error())
		return err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	s.myOrders.Succeed(t, orders)
	return nil
}

// FetchAllOrders loads every order (admin).
func (s *Store) FetchAllOrders(ctx context.Context) error {
	t := s.orders.Begin()
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		s.orders.Fail(t, err.Error())
		return err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	s.orders.Succeed(t, orders)
	return nil
}

// OrderCreateReset clears the placed-order outcome after navigation.
func (s *Store) OrderCreateReset() {
	s.orderCreate.Reset()
}

// OrderPayReset clears the pay outcome after navigation.
func (s *Store) OrderPayReset() {
	s.orderPay.Reset()
}

// OrderDeliverReset clears the deliver outcome after navigation.
func (s *Store) OrderDeliverReset() {
	s.orderDeliver.Reset()
}

// --- Accessors ---

// CurrentSession returns a copy of the session, nil when logged out.
func (s *Store) CurrentSession() *models.Session { return s.session.Current() }

// Cart returns the client-owned cart.
func (s *Store) Cart() *Cart { return s.cart }

// ProductList returns the catalog list slice state.
func (s *Store) ProductList() State[[]models.Product] { return s.productList.Snapshot() }

// ProductDetails returns the product detail slice state.
func (s *Store) ProductDetails() State[*models.Product] { return s.productDetails.Snapshot() }

// ProductCreate returns the product create slice state.
func (s *Store) ProductCreate() State[*models.Product] { return s.productCreate.Snapshot() }

// ProductUpdate returns the product update slice state.
func (s *Store) ProductUpdate() State[*models.Product] { return s.productUpdate.Snapshot() }

// ProductDelete returns the product delete slice state.
func (s *Store) ProductDelete() State[struct{}] { return s.productDelete.Snapshot() }

// User returns the session slice state.
func (s *Store) User() State[*models.Session] { return s.user.Snapshot() }

// Users returns the admin user-list slice state.
func (s *Store) Users() State[[]models.User] { return s.users.Snapshot() }

// OrderCreate returns the order creation slice state.
func (s *Store) OrderCreate() State[*models.Order] { return s.orderCreate.Snapshot() }

// OrderDetails returns the order detail slice state.
func (s *Store) OrderDetails() State[*models.Order] { return s.orderDetails.Snapshot() }

// OrderPay returns the pay slice state.
func (s *Store) OrderPay() State[*models.Order] { return s.orderPay.Snapshot() }

// OrderDeliver returns the deliver slice state.
func (s *Store) OrderDeliver() State[*models.Order] { return s.orderDeliver.Snapshot() }

// MyOrders returns the order history slice state.
func (s *Store) MyOrders() State[[]models.Order] { return s.myOrders.Snapshot() }

// AllOrders returns the admin order-list slice state.
func (s *Store) AllOrders() State[[]models.Order] { return s.orders.Snapshot() }
