package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/pratodigital/checkout/docs"
	"github.com/pratodigital/checkout/internal/address"
	"github.com/pratodigital/checkout/internal/checkout"
	"github.com/pratodigital/checkout/internal/config"
	"github.com/pratodigital/checkout/internal/customer"
	"github.com/pratodigital/checkout/internal/discount"
	"github.com/pratodigital/checkout/internal/httpx"
	"github.com/pratodigital/checkout/internal/notify"
	"github.com/pratodigital/checkout/internal/order"
	"github.com/pratodigital/checkout/internal/payment"
	"github.com/pratodigital/checkout/internal/pgdb"
	"github.com/pratodigital/checkout/internal/store"
)

// @title        Checkout Service API
// @version      1.0
// @description  Multi-tenant checkout: discount resolution, payment branching and order commit.
// @BasePath     /
func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pgdb.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pgdb.Migrate(cfg.MigrationsURL, cfg.PostgresDSN); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	couponRepo := discount.NewPGCouponRepo(pool)
	referralRepo := discount.NewPGReferralRepo(pool)
	creditRepo := discount.NewPGCreditRepo(pool)
	orderRepo := order.NewPGRepo(pool)
	sessionRepo := payment.NewPGSessionRepo(pool)

	ext := checkout.NewExt(cfg.InventoryBaseURL, cfg.LoyaltyBaseURL)

	effects := &checkout.SideEffects{
		Coupons:   couponRepo,
		Referrals: referralRepo,
		Credits:   creditRepo,
		Loyalty:   ext,
	}
	// Confirmations are best-effort: the service still takes orders while the
	// broker is down.
	if pub, err := notify.Connect(cfg.AmqpURL); err != nil {
		log.Printf("[notify] rabbitmq unavailable, confirmations disabled: %v", err)
	} else {
		defer pub.Close()
		effects.Notifier = pub
	}

	pipeline := &checkout.Pipeline{
		Stores:    store.NewPGRepo(pool),
		Customers: customer.NewResolver(customer.NewPGRepo(pool), customer.NewRedisCache(rdb)),
		Addresses: address.NewResolver(address.NewPGRepo(pool)),
		Coupons:   couponRepo,
		Referrals: referralRepo,
		Credits:   creditRepo,
		Orders:    orderRepo,
		Sessions:  sessionRepo,
		Dispatch: payment.NewDispatcher(map[string]payment.GatewayClient{
			"gateway_a": payment.NewHTTPGateway("gateway_a", cfg.GatewayABaseURL),
			"gateway_b": payment.NewHTTPGateway("gateway_b", cfg.GatewayBBaseURL),
		}, sessionRepo),
		Inventory: ext,
		Effects:   effects,
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/", httpx.Tenant())
	api.POST("/checkout", checkoutHandler(pipeline))
	api.POST("/payments/:session_id/confirm", confirmPaymentHandler(pipeline))
	api.GET("/orders/:id", getOrderHandler(orderRepo))

	log.Printf("checkout-service listening on %s", cfg.CheckoutSvcAddr)
	log.Fatal(r.Run(cfg.CheckoutSvcAddr))
}
