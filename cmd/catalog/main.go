// cmd/catalog/main.go
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	gcfs "cloud.google.com/go/firestore"

	"boutique/internal/adapters/in/http/handlers"
	"boutique/internal/adapters/in/http/middleware"
	"boutique/internal/adapters/out/cache"
	"boutique/internal/adapters/out/db"
	fsstore "boutique/internal/adapters/out/firestore"
	"boutique/internal/adapters/out/i18n"
	"boutique/internal/adapters/out/mail"
	"boutique/internal/adapters/out/memory"
	"boutique/internal/application/usecase"
	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
	"boutique/internal/platform/config"
)

// atomicHandler allows swapping the underlying handler at runtime
// safely: the server listens with a healthz-only mux immediately and
// the full router is stored once wiring finishes.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

// cartPurger is satisfied by both cart store implementations.
type cartPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// closerList collects dependency handles for shutdown. Wiring appends
// from its own goroutine while a signal may already be draining, so
// access is guarded.
type closerList struct {
	mu sync.Mutex
	cs []io.Closer
}

func (l *closerList) add(c io.Closer) {
	l.mu.Lock()
	l.cs = append(l.cs, c)
	l.mu.Unlock()
}

func (l *closerList) closeAll() {
	l.mu.Lock()
	cs := l.cs
	l.cs = nil
	l.mu.Unlock()

	for _, c := range cs {
		if err := c.Close(); err != nil {
			log.Printf("[boot] WARN: close dependency: %v", err)
		}
	}
}

func main() {
	ctx := context.Background()

	settings := config.LoadEnv()
	warns, err := settings.Validate()
	for _, wmsg := range warns {
		log.Printf("[boot] WARN: %s", wmsg)
	}
	if err != nil {
		log.Fatalf("[boot] invalid configuration: %v", err)
	}

	// Start listening ASAP with a lightweight mux (healthz only).
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	switcher := newAtomicHandler(middleware.CORS(settings.AllowedOrigin, healthMux))

	srv := &http.Server{
		Addr:         ":" + settings.Port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shuttingDown := make(chan struct{})

	closers := &closerList{}

	// Wire the real router in the background so a slow dependency
	// never blocks the health check.
	go func() {
		dsn, err := settings.ResolveDatabaseURL(ctx)
		if err != nil {
			log.Printf("[boot] ERROR: resolve database url: %v", err)
			return
		}

		conn, err := db.Open(ctx, dsn)
		if err != nil {
			log.Printf("[boot] ERROR: open database: %v", err)
			return
		}
		closers.add(conn)

		productRepo := db.NewProductRepositoryPG(conn)
		orders := db.NewOrderRepositoryPG(conn)

		// Storefront and admin reads may go through the cache; checkout
		// must not. Stock reconciliation decrements an absolute value it
		// just read, so a stale cached quantity would silently undo a
		// decrement applied by another instance.
		var products productdom.Repository = productRepo
		if settings.RedisAddr != "" {
			rdb, err := cache.Connect(ctx, settings.RedisAddr)
			if err != nil {
				log.Printf("[boot] WARN: redis unavailable, cache disabled: %v", err)
			} else {
				closers.add(rdb)
				products = cache.NewProductCacheRedis(products, rdb)
			}
		}

		var carts cartdom.Store
		var purger cartPurger
		switch settings.CartBackend {
		case "firestore":
			fsClient, err := gcfs.NewClient(ctx, settings.FirestoreProjectID)
			if err != nil {
				log.Printf("[boot] ERROR: firestore client: %v", err)
				return
			}
			closers.add(fsClient)
			fs := fsstore.NewCartStoreFS(fsClient)
			carts, purger = fs, fs
		default:
			mem := memory.NewCartStoreMem()
			carts, purger = mem, mem
		}

		var notifier usecase.OrderNotifier
		if settings.SendGridAPIKey != "" && settings.OrderMailFrom != "" && settings.OrderMailTo != "" {
			notifier = mail.NewOrderMailer(
				mail.NewSendGridClient(settings.SendGridAPIKey),
				settings.OrderMailFrom,
				settings.OrderMailTo,
			)
		}

		cartUC := usecase.NewCartUsecase(carts, products)

		mux := http.NewServeMux()
		mux.Handle("/healthz", healthMux)
		mux.Handle("/admin/products", handlers.NewProductHandler(products, orders, carts, i18n.NewEnglish()))
		mux.Handle("/admin/products/", handlers.NewProductHandler(products, orders, carts, i18n.NewEnglish()))
		mux.Handle("/cart", handlers.NewCartHandler(cartUC))
		mux.Handle("/cart/", handlers.NewCartHandler(cartUC))
		mux.Handle("/checkout", handlers.NewCheckoutHandler(productRepo, orders, carts, notifier))

		switcher.Store(middleware.CORS(settings.AllowedOrigin, middleware.Recover(mux)))
		log.Printf("[boot] router ready (cart backend=%s)", settings.CartBackend)

		// Hourly sweep of idle carts. Firestore TTL on expiresAt makes
		// this redundant when configured; keeping it covers the memory
		// backend and projects without TTL policies.
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-shuttingDown:
				return
			case <-ticker.C:
				n, err := purger.PurgeExpired(ctx, time.Now().UTC())
				if err != nil {
					log.Printf("[boot] WARN: cart purge failed: %v", err)
				} else if n > 0 {
					log.Printf("[boot] purged %d idle carts", n)
				}
			}
		}
	}()

	// Graceful shutdown.
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Printf("[boot] signal received: %v, shutting down", sig)
		close(shuttingDown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] WARN: server shutdown: %v", err)
		}

		closers.closeAll()
		close(idleConnsClosed)
	}()

	log.Printf("[boot] listening on :%s", settings.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[boot] server error: %v", err)
	}
	<-idleConnsClosed
}
