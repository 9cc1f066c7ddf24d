package main

import (
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"kytstore.org/kyt-web/internal/cart"
	"kytstore.org/kyt-web/internal/content"
	"kytstore.org/kyt-web/internal/format"
	mw "kytstore.org/kyt-web/internal/middleware"
	"kytstore.org/kyt-web/internal/observability"
	"kytstore.org/kyt-web/internal/shop"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	contentDir   = "content"
	// devMode is set in main() based on env: KYT_WEB_DEV (preferred) or DEV (fallback)
	devMode   bool
	tmplCache *template.Template

	apiClient    *shop.Client
	carts        *cart.Registry
	contentStore *content.Store
	appLogger    *zap.Logger
)

func main() {
	// Flags/environment
	var (
		addr    string
		tmlPath string
		pubPath string
		cntPath string
		apiURL  string
	)
	// Port resolution: prefer KYT_WEB_PORT, then the platform's PORT, else 8080
	port := os.Getenv("KYT_WEB_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	flag.StringVar(&addr, "addr", ":"+port, "HTTP listen address")
	flag.StringVar(&tmlPath, "templates", templatesDir, "templates directory")
	flag.StringVar(&pubPath, "public", publicDir, "public assets directory")
	flag.StringVar(&cntPath, "content", contentDir, "static content directory")
	flag.StringVar(&apiURL, "api", os.Getenv("KYT_WEB_API_URL"), "backend API base URL (empty = built-in demo data)")
	flag.Parse()

	templatesDir = tmlPath
	publicDir = pubPath
	contentDir = cntPath

	// Dev mode: prefer KYT_WEB_DEV, fallback to DEV
	devMode = os.Getenv("KYT_WEB_DEV") != "" || os.Getenv("DEV") != ""

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			log.Fatalf("parse templates: %v", err)
		}
		tmplCache = tc
	}

	logger, err := observability.NewLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	appLogger = logger
	apiClient = shop.NewClient(apiURL)
	carts = cart.NewRegistry()
	contentStore = content.NewStore(contentDir)

	r := newRouter()

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening", zap.String("addr", addr), zap.Bool("dev", devMode), zap.Bool("demo_backend", apiURL == ""))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %v", err)
	}
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.CSRF)
	r.Use(mw.Logger(appLogger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets under /assets/
	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets")))
	r.Handle("/assets/*", assets)

	// Entry page and auth
	r.Get("/", IndexHandler)
	r.Post("/auth/login", LoginHandler)
	r.Post("/auth/register", RegisterHandler)
	r.Post("/logout", LogoutHandler)

	// Static content pages
	r.Get("/pages/{slug}", ContentPageHandler)

	// Storefront; everything below requires a stored access token
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/store", StoreHandler)
		r.Get("/modal/product/{id}", ProductModalFrag)
		r.Get("/cart/sidebar", CartSidebarFrag)
		r.Post("/cart/open", CartOpenHandler)
		r.Post("/cart/close", CartCloseHandler)
		r.Post("/cart/items", CartAddHandler)
		r.Post("/cart/items/{index}/quantity", CartQuantityHandler)
		r.Post("/cart/items/{index}/remove", CartRemoveHandler)
		r.Post("/cart/clear", CartClearHandler)
		r.Post("/checkout", CheckoutHandler)
	})

	return r
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now":    time.Now,
		"price":  format.Price,
		"amount": format.Amount,
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func templates(w http.ResponseWriter) *template.Template {
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return nil
		}
		return tc
	}
	if tmplCache == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return nil
	}
	return tmplCache
}

// renderPage executes a full page template. In dev mode, templates are
// reparsed on each request.
func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	t := templates(w)
	if t == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// renderTemplate executes a fragment template for htmx swaps.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	renderPage(w, r, name, data)
}
