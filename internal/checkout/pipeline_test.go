package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratodigital/checkout/internal/address"
	"github.com/pratodigital/checkout/internal/cart"
	"github.com/pratodigital/checkout/internal/customer"
	"github.com/pratodigital/checkout/internal/discount"
	"github.com/pratodigital/checkout/internal/notify"
	"github.com/pratodigital/checkout/internal/order"
	"github.com/pratodigital/checkout/internal/payment"
	"github.com/pratodigital/checkout/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

//
// ---------- STUBS ----------
//

type stubStores struct{ st *store.Store }

func (s *stubStores) GetByTenant(context.Context, string) (*store.Store, error) {
	if s.st == nil {
		return nil, store.ErrNotFound
	}
	return s.st, nil
}

type stubCustomers struct {
	byEmail   map[string]*customer.Customer
	byPhone   map[string]*customer.Customer
	creates   int
	createErr error
}

func newStubCustomers() *stubCustomers {
	return &stubCustomers{byEmail: map[string]*customer.Customer{}, byPhone: map[string]*customer.Customer{}}
}

func (s *stubCustomers) GetByEmail(_ context.Context, _, email string) (*customer.Customer, error) {
	if c, ok := s.byEmail[email]; ok {
		return c, nil
	}
	return nil, customer.ErrNotFound
}

func (s *stubCustomers) GetByPhone(_ context.Context, _, phone string) (*customer.Customer, error) {
	if c, ok := s.byPhone[phone]; ok {
		return c, nil
	}
	return nil, customer.ErrNotFound
}

func (s *stubCustomers) Create(_ context.Context, c *customer.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.creates++
	if c.Email != "" {
		s.byEmail[c.Email] = c
	}
	if c.Phone != "" {
		s.byPhone[c.Phone] = c
	}
	return nil
}

func (s *stubCustomers) Update(context.Context, *customer.Customer) error { return nil }

type stubAddresses struct {
	byID    map[string]*address.Address
	created []*address.Address
}

func newStubAddresses() *stubAddresses { return &stubAddresses{byID: map[string]*address.Address{}} }

func (s *stubAddresses) GetByID(_ context.Context, id string) (*address.Address, error) {
	if a, ok := s.byID[id]; ok {
		return a, nil
	}
	return nil, address.ErrNotFound
}

func (s *stubAddresses) FindExact(context.Context, string, string, address.Fields) (*address.Address, error) {
	return nil, address.ErrNotFound
}

func (s *stubAddresses) Create(_ context.Context, a *address.Address) error {
	s.byID[a.ID] = a
	s.created = append(s.created, a)
	return nil
}

func (s *stubAddresses) AttachCustomer(context.Context, string, string) error { return nil }

type stubCoupons struct {
	coupon      *discount.Coupon
	incremented []string
}

func (s *stubCoupons) GetByCode(_ context.Context, _, code string) (*discount.Coupon, error) {
	if s.coupon != nil && s.coupon.Code == code {
		cp := *s.coupon
		return &cp, nil
	}
	return nil, discount.ErrCouponNotFound
}

func (s *stubCoupons) IncrementUsage(_ context.Context, id string) error {
	s.incremented = append(s.incremented, id)
	return nil
}

type stubReferrals struct {
	grant   *discount.ReferralGrant
	settled []string
}

func (s *stubReferrals) GetGrant(_ context.Context, _, code, referredCustomerID string) (*discount.ReferralGrant, error) {
	if s.grant != nil && s.grant.Code == code {
		g := *s.grant
		g.ReferredCustomerID = referredCustomerID
		return &g, nil
	}
	return nil, discount.ErrGrantNotFound
}

func (s *stubReferrals) Settle(_ context.Context, _, orderID string, _ decimal.Decimal) error {
	s.settled = append(s.settled, orderID)
	return nil
}

type stubCredits struct {
	balance  decimal.Decimal
	consumed []decimal.Decimal
}

func (s *stubCredits) Balance(context.Context, string, string) (decimal.Decimal, error) {
	return s.balance, nil
}

func (s *stubCredits) Consume(_ context.Context, _, _ string, amount decimal.Decimal, _ string) error {
	s.consumed = append(s.consumed, amount)
	return nil
}

type stubOrders struct {
	header        *order.Order
	items         []order.Item
	failItems     bool
	deleted       []string
	tableContacts []string
}

func (s *stubOrders) InsertHeader(_ context.Context, o *order.Order) error {
	cp := *o
	s.header = &cp
	return nil
}

func (s *stubOrders) InsertItems(_ context.Context, _ string, items []order.Item) error {
	if s.failItems {
		return errors.New("connection reset")
	}
	s.items = append([]order.Item(nil), items...)
	return nil
}

func (s *stubOrders) Delete(_ context.Context, orderID string) error {
	s.deleted = append(s.deleted, orderID)
	if s.header != nil && s.header.ID == orderID {
		s.header = nil
		s.items = nil
	}
	return nil
}

func (s *stubOrders) GetByID(_ context.Context, id string) (*order.Order, []order.Item, error) {
	if s.header == nil || s.header.ID != id {
		return nil, nil, order.ErrNotFound
	}
	return s.header, s.items, nil
}

func (s *stubOrders) UpdateTableContact(_ context.Context, tableSessionID, name, _ string) error {
	s.tableContacts = append(s.tableContacts, tableSessionID+"/"+name)
	return nil
}

type stubSessions struct {
	created  []*payment.Session
	consumed map[string]bool
	reopened []string
}

func newStubSessions() *stubSessions { return &stubSessions{consumed: map[string]bool{}} }

func (s *stubSessions) Create(_ context.Context, sess *payment.Session) error {
	s.created = append(s.created, sess)
	return nil
}

func (s *stubSessions) GetByID(_ context.Context, id string) (*payment.Session, error) {
	for _, sess := range s.created {
		if sess.ID == id {
			cp := *sess
			if s.consumed[id] {
				now := time.Now()
				cp.ConsumedAt = &now
			}
			return &cp, nil
		}
	}
	return nil, payment.ErrSessionNotFound
}

func (s *stubSessions) MarkConsumed(_ context.Context, id string) error {
	if s.consumed[id] {
		return payment.ErrSessionConsumed
	}
	s.consumed[id] = true
	return nil
}

func (s *stubSessions) Reopen(_ context.Context, id string) error {
	s.reopened = append(s.reopened, id)
	delete(s.consumed, id)
	return nil
}

type stubInventory struct {
	ok     bool
	msg    string
	err    error
	calls  int
	lastN  int
	tenant string
}

func (s *stubInventory) ValidateInventory(_ context.Context, tenantID string, items []InventoryItem) (bool, string, error) {
	s.calls++
	s.lastN = len(items)
	s.tenant = tenantID
	return s.ok, s.msg, s.err
}

type stubGateway struct {
	resp  *payment.SessionResponse
	err   error
	calls int
}

func (s *stubGateway) CreateSession(context.Context, payment.SessionRequest) (*payment.SessionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubNotifier struct {
	published []notify.OrderConfirmation
}

func (s *stubNotifier) PublishOrderConfirmed(_ context.Context, c notify.OrderConfirmation) error {
	s.published = append(s.published, c)
	return nil
}

//
// ---------- FIXTURE ----------
//

type fixture struct {
	pipeline  *Pipeline
	store     *store.Store
	customers *stubCustomers
	addresses *stubAddresses
	coupons   *stubCoupons
	referrals *stubReferrals
	credits   *stubCredits
	orders    *stubOrders
	sessions  *stubSessions
	inventory *stubInventory
	gateway   *stubGateway
	notifier  *stubNotifier
}

func newFixture() *fixture {
	f := &fixture{
		store: &store.Store{
			TenantID:              "t1",
			Name:                  "Cantina da Praca",
			Open:                  true,
			Gateway:               "gateway_a",
			DeliveryFee:           dec("8.00"),
			MinOrder:              decimal.Zero,
			LoyaltyBonusThreshold: dec("25.00"),
		},
		customers: newStubCustomers(),
		addresses: newStubAddresses(),
		coupons:   &stubCoupons{},
		referrals: &stubReferrals{},
		credits:   &stubCredits{balance: decimal.Zero},
		orders:    &stubOrders{},
		sessions:  newStubSessions(),
		inventory: &stubInventory{ok: true},
		gateway: &stubGateway{resp: &payment.SessionResponse{
			SessionID:    "ext-1",
			QROrRedirect: "https://pay.example/ext-1",
			ExpiresAt:    time.Now().Add(15 * time.Minute),
		}},
		notifier: &stubNotifier{},
	}
	f.pipeline = &Pipeline{
		Stores:    &stubStores{st: f.store},
		Customers: customer.NewResolver(f.customers, nil),
		Addresses: address.NewResolver(f.addresses),
		Coupons:   f.coupons,
		Referrals: f.referrals,
		Credits:   f.credits,
		Orders:    f.orders,
		Sessions:  f.sessions,
		Dispatch:  payment.NewDispatcher(map[string]payment.GatewayClient{"gateway_a": f.gateway}, f.sessions),
		Inventory: f.inventory,
		Effects: &SideEffects{
			Coupons:   f.coupons,
			Referrals: f.referrals,
			Credits:   f.credits,
			Notifier:  f.notifier,
		},
	}
	return f
}

var deliveryFields = address.Fields{
	Street: "Rua das Flores", Number: "120", Neighborhood: "Centro",
	City: "Campinas", State: "SP", PostalCode: "13010-000",
}

func deliveryRequest(method string, lines ...cart.Line) Request {
	return Request{
		TenantID:  "t1",
		SessionID: "sess-1",
		Channel:   "storefront",
		Method:    method,
		Cart:      cart.Snapshot{Lines: lines},
		Customer:  CustomerInput{Name: "Ana", Email: "ana@example.com", Phone: "11912345678"},
		Delivery:  DeliveryInput{Address: deliveryFields},
	}
}

func line(price string, qty int) cart.Line {
	return cart.Line{ProductID: "p1", ProductName: "Marguerita", Quantity: qty, UnitPrice: dec(price), RequiresPrep: true}
}

//
// ---------- TESTS ----------
//

func TestRun_CashWithPercentageCoupon(t *testing.T) {
	// Scenario A: subtotal 50.00, 10% coupon with min 20.00, delivery fee 8.00
	f := newFixture()
	f.coupons.coupon = &discount.Coupon{
		ID: "cp1", Code: "SAVE10", Type: discount.CouponPercentage,
		Rate: dec("10"), MinSubtotal: dec("20.00"), UsageCap: 100, Active: true,
	}

	req := deliveryRequest("cash", line("25.00", 2))
	req.CouponCode = "SAVE10"
	req.NeedsChange = true
	req.ChangeFor = "60.00"

	res, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "53.00", res.Total)
	assert.False(t, res.Suspended)

	o := f.orders.header
	require.NotNil(t, o)
	assert.Equal(t, "50.00", o.Subtotal)
	assert.Equal(t, "5.00", o.Discount)
	assert.Equal(t, "coupon", o.DiscountKind)
	assert.Equal(t, "8.00", o.DeliveryFee)
	assert.Equal(t, "53.00", o.Total)
	assert.True(t, o.NeedsChange)
	assert.Equal(t, "60.00", o.ChangeFor)
	require.Len(t, f.orders.items, 1)
	assert.Equal(t, "Marguerita", f.orders.items[0].ProductName)
	assert.Equal(t, "25.00", f.orders.items[0].UnitPrice)

	// side effects
	assert.Equal(t, []string{"cp1"}, f.coupons.incremented)
	require.Len(t, f.notifier.published, 1)
	assert.Equal(t, o.ID, f.notifier.published[0].OrderID)
}

func TestRun_ReferralDiscount(t *testing.T) {
	// Scenario B: subtotal 30.00, referral 15% -> 4.50
	f := newFixture()
	f.referrals.grant = &discount.ReferralGrant{ID: "g1", Code: "FRIEND", Percent: dec("15")}

	req := deliveryRequest("cash", line("30.00", 1))
	req.ReferralCode = "FRIEND"

	res, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "4.50", f.orders.header.Discount)
	assert.Equal(t, "referral", f.orders.header.DiscountKind)
	// settlement is idempotent per order id
	assert.Equal(t, []string{f.orders.header.ID}, f.referrals.settled)
	assert.Equal(t, "33.50", res.Total)
}

func TestRun_StoreCreditCappedAtSubtotal(t *testing.T) {
	// Scenario C: subtotal 40.00, balance 100.00 -> discount 40.00, total is the fee only
	f := newFixture()
	f.credits.balance = dec("100.00")

	req := deliveryRequest("cash", line("40.00", 1))
	req.UseStoreCredit = true

	res, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "40.00", f.orders.header.Discount)
	assert.Equal(t, "credit", f.orders.header.DiscountKind)
	assert.Equal(t, "8.00", res.Total)

	require.Len(t, f.credits.consumed, 1)
	assert.True(t, f.credits.consumed[0].Equal(dec("40.00")))
}

func TestRun_TableOrderSkipsAddressAndZeroesFee(t *testing.T) {
	// Scenario D
	f := newFixture()
	req := deliveryRequest("counter", line("20.00", 1))
	req.Delivery = DeliveryInput{TableOrder: true, TableSessionID: "ts-7", TableNumber: 7}
	req.Notes = "no onions"

	res, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)

	o := f.orders.header
	assert.Empty(t, o.AddressID)
	assert.Empty(t, f.addresses.created)
	assert.Equal(t, "0.00", o.DeliveryFee)
	assert.Equal(t, "[table 7] no onions", o.Notes)
	assert.Equal(t, "20.00", res.Total)
	assert.Equal(t, []string{"ts-7/Ana"}, f.orders.tableContacts)
}

func TestRun_PixDisabledRejectsBeforeAnyWrite(t *testing.T) {
	// Scenario E
	f := newFixture()
	f.store.OnlinePaymentsEnabled = false

	req := deliveryRequest("pix", line("20.00", 1))
	_, err := f.pipeline.Run(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.sessions.created)
	assert.Nil(t, f.orders.header)
	assert.Zero(t, f.gateway.calls)
}

func TestRun_InventoryFailureWritesNothing(t *testing.T) {
	f := newFixture()
	f.inventory.ok = false
	f.inventory.msg = "marguerita is sold out"

	_, err := f.pipeline.Run(context.Background(), deliveryRequest("cash", line("20.00", 1)))

	var serr *StockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "marguerita is sold out", serr.Reason)
	assert.Zero(t, f.customers.creates)
	assert.Empty(t, f.addresses.created)
	assert.Nil(t, f.orders.header)
	assert.Empty(t, f.sessions.created)
}

func TestRun_ItemsWriteFailureDeletesHeader(t *testing.T) {
	f := newFixture()
	f.orders.failItems = true

	req := deliveryRequest("cash", line("20.00", 1))
	_, err := f.pipeline.Run(context.Background(), req)

	var cerr *CommitError
	require.ErrorAs(t, err, &cerr)
	// generic message, no storage internals
	assert.Equal(t, "could not complete your order, please try again", cerr.Error())
	require.Len(t, f.orders.deleted, 1)
	assert.Nil(t, f.orders.header, "no residual order rows after compensation")
	assert.Empty(t, f.notifier.published)
}

func TestRun_TotalsInvariant(t *testing.T) {
	f := newFixture()
	req := deliveryRequest("card_on_delivery",
		line("12.30", 2),
		cart.Line{ProductID: "p2", ProductName: "Guarana", Quantity: 3, UnitPrice: dec("6.50")},
	)

	_, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)

	o := f.orders.header
	subtotal, discountAmt, fee, total := dec(o.Subtotal), dec(o.Discount), dec(o.DeliveryFee), dec(o.Total)
	assert.True(t, total.Equal(subtotal.Sub(discountAmt).Add(fee)),
		"total must equal subtotal - discount + delivery fee")
}

func TestRun_ClosedStore(t *testing.T) {
	f := newFixture()
	f.store.Open = false
	_, err := f.pipeline.Run(context.Background(), deliveryRequest("cash", line("20.00", 1)))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "store is closed", verr.Reason)
	assert.Zero(t, f.inventory.calls)
}

func TestRun_EmptyCart(t *testing.T) {
	f := newFixture()
	_, err := f.pipeline.Run(context.Background(), deliveryRequest("cash"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cart is empty", verr.Reason)
}

func TestRun_UnknownMethod(t *testing.T) {
	f := newFixture()
	_, err := f.pipeline.Run(context.Background(), deliveryRequest("crypto", line("20.00", 1)))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRun_MissingAddressFields(t *testing.T) {
	f := newFixture()
	req := deliveryRequest("cash", line("20.00", 1))
	req.Delivery = DeliveryInput{Address: address.Fields{Street: "Rua A"}}

	_, err := f.pipeline.Run(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Nil(t, f.orders.header)
}

func TestRun_InvalidCouponReasonSurfaced(t *testing.T) {
	f := newFixture()
	f.coupons.coupon = &discount.Coupon{
		ID: "cp1", Code: "SAVE10", Type: discount.CouponPercentage,
		Rate: dec("10"), MinSubtotal: dec("100.00"), Active: true,
	}
	req := deliveryRequest("cash", line("20.00", 1))
	req.CouponCode = "SAVE10"

	_, err := f.pipeline.Run(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, discount.ErrCouponMinNotMet.Error(), verr.Reason)
	assert.Nil(t, f.orders.header)
}

func TestRun_SameEmailSameCustomerAcrossAttempts(t *testing.T) {
	f := newFixture()
	_, err := f.pipeline.Run(context.Background(), deliveryRequest("cash", line("20.00", 1)))
	require.NoError(t, err)
	firstCustomer := f.orders.header.CustomerID

	_, err = f.pipeline.Run(context.Background(), deliveryRequest("cash", line("20.00", 1)))
	require.NoError(t, err)

	assert.Equal(t, firstCustomer, f.orders.header.CustomerID)
	assert.Equal(t, 1, f.customers.creates, "no duplicate customer rows")
}

func TestRun_PixSuspendsOnSessionThenConfirmCommits(t *testing.T) {
	f := newFixture()
	f.store.OnlinePaymentsEnabled = true
	f.store.PixEnabled = true

	req := deliveryRequest("pix", line("25.00", 2))
	res, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)

	require.True(t, res.Suspended)
	require.NotNil(t, res.Session)
	assert.Nil(t, f.orders.header, "no order row before the payment settles")
	require.Len(t, f.sessions.created, 1)
	assert.Equal(t, "58.00", f.sessions.created[0].Amount)

	// external confirmation resumes a fresh invocation of the pipeline
	confirmed, err := f.pipeline.Confirm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "58.00", confirmed.Total)
	require.NotNil(t, f.orders.header)
	assert.Equal(t, "pix", f.orders.header.PaymentMethod)
}

func TestConfirm_ConsumedSessionRejected(t *testing.T) {
	f := newFixture()
	f.store.OnlinePaymentsEnabled = true
	f.store.PixEnabled = true

	res, err := f.pipeline.Run(context.Background(), deliveryRequest("pix", line("25.00", 2)))
	require.NoError(t, err)

	_, err = f.pipeline.Confirm(context.Background(), res.Session.ID)
	require.NoError(t, err)

	_, err = f.pipeline.Confirm(context.Background(), res.Session.ID)
	assert.ErrorIs(t, err, payment.ErrSessionConsumed)
}

func TestConfirm_RetryableAfterCommitFailure(t *testing.T) {
	f := newFixture()
	f.store.OnlinePaymentsEnabled = true
	f.store.PixEnabled = true

	res, err := f.pipeline.Run(context.Background(), deliveryRequest("pix", line("25.00", 2)))
	require.NoError(t, err)

	// a transient storage failure during the confirmed commit
	f.orders.failItems = true
	_, err = f.pipeline.Confirm(context.Background(), res.Session.ID)
	var cerr *CommitError
	require.ErrorAs(t, err, &cerr)
	assert.Nil(t, f.orders.header, "no residual order rows after compensation")
	assert.Equal(t, []string{res.Session.ID}, f.sessions.reopened,
		"the claim must be released, the payment has settled")
	assert.False(t, f.sessions.consumed[res.Session.ID])

	// the next confirmation attempt must commit the order
	f.orders.failItems = false
	confirmed, err := f.pipeline.Confirm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "58.00", confirmed.Total)
	require.NotNil(t, f.orders.header)

	// and only then is the session spent for good
	_, err = f.pipeline.Confirm(context.Background(), res.Session.ID)
	assert.ErrorIs(t, err, payment.ErrSessionConsumed)
}

func TestConfirm_CommitsResolutionFrozenAtSessionCreation(t *testing.T) {
	f := newFixture()
	f.store.OnlinePaymentsEnabled = true
	f.store.PixEnabled = true
	f.coupons.coupon = &discount.Coupon{
		ID: "cp1", Code: "SAVE10", Type: discount.CouponPercentage,
		Rate: dec("10"), MinSubtotal: dec("20.00"), Active: true,
	}

	req := deliveryRequest("pix", line("25.00", 2))
	req.CouponCode = "SAVE10"
	res, err := f.pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "53.00", res.Session.Amount)

	// the world moves on between settlement and confirmation: the coupon
	// expires, the store closes, the fee changes
	past := time.Now().Add(-time.Hour)
	f.coupons.coupon.ExpiresAt = &past
	f.store.Open = false
	f.store.DeliveryFee = dec("12.00")

	confirmed, err := f.pipeline.Confirm(context.Background(), res.Session.ID)
	require.NoError(t, err, "a settled payment must commit regardless")

	o := f.orders.header
	require.NotNil(t, o)
	assert.Equal(t, "5.00", o.Discount)
	assert.Equal(t, "coupon", o.DiscountKind)
	assert.Equal(t, "8.00", o.DeliveryFee)
	assert.Equal(t, res.Session.Amount, o.Total, "committed total must match the charged amount")
	assert.Equal(t, res.Session.Amount, confirmed.Total)
	assert.Equal(t, []string{"cp1"}, f.coupons.incremented)
}

func TestRun_ResolutionFailureIsNotACommitError(t *testing.T) {
	f := newFixture()
	f.customers.createErr = errors.New("connection refused")

	_, err := f.pipeline.Run(context.Background(), deliveryRequest("cash", line("20.00", 1)))

	var ierr *InternalError
	require.ErrorAs(t, err, &ierr)
	var cerr *CommitError
	assert.False(t, errors.As(err, &cerr), "nothing was written, so no commit failure")
	assert.Nil(t, f.orders.header)
	assert.Empty(t, f.orders.deleted)
}

func TestConfirm_ExpiredSessionRejected(t *testing.T) {
	f := newFixture()
	f.store.OnlinePaymentsEnabled = true
	f.store.PixEnabled = true
	f.gateway.resp.ExpiresAt = time.Now().Add(-time.Minute)

	res, err := f.pipeline.Run(context.Background(), deliveryRequest("pix", line("25.00", 2)))
	require.NoError(t, err)

	_, err = f.pipeline.Confirm(context.Background(), res.Session.ID)
	assert.ErrorIs(t, err, payment.ErrSessionExpired)
	assert.Nil(t, f.orders.header)
}

func TestLoyaltyTickets(t *testing.T) {
	// flat 1 ticket plus one bonus per 25.00 of subtotal
	assert.Equal(t, 3, LoyaltyTickets(dec("50.00"), 1, dec("25.00")))
	assert.Equal(t, 1, LoyaltyTickets(dec("24.99"), 1, dec("25.00")))
	assert.Equal(t, 2, LoyaltyTickets(dec("10.00"), 2, decimal.Zero))
}

func TestFlattenForInventory(t *testing.T) {
	s := cart.Snapshot{Lines: []cart.Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "combo", Quantity: 1, Composite: true, ComponentIDs: []string{"pa", "pb"}},
	}}
	items := FlattenForInventory(s)
	require.Len(t, items, 2)
	assert.True(t, items[1].Composite)
	assert.Equal(t, []string{"pa", "pb"}, items[1].ComponentIDs)
}
