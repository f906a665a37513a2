// Package main implements a mock shop that serves product pages shaped like
// the retail pages dealhound tracks. It lets the static renderer be exercised
// locally: point products.txt at http://localhost:8090/dp/<asin> with a
// hosts entry mapping a www.amazon.* name to 127.0.0.1.
package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"
)

//go:embed testdata/products.json
var defaultFixture []byte

// product is one fixture entry. Layout selects which price markup the page
// uses: offscreen, split (whole and fraction spans), deal, or none.
type product struct {
	ASIN         string `json:"asin"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Layout       string `json:"layout"`
	Availability string `json:"availability"`
}

type catalog struct {
	Products []product `json:"products"`
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><title>{{.Name}}</title></head>
<body>
<div id="title"><h1 class="a-size-large">{{if .Name}}<span id="productTitle">{{.Name}}</span>{{end}}</h1></div>
{{- if eq .Layout "offscreen"}}
<span class="a-price" data-a-color="price"><span class="a-offscreen">${{.Price}}</span><span aria-hidden="true">${{.Price}}</span></span>
{{- else if eq .Layout "split"}}
<span class="a-price"><span class="a-price-whole">{{.Whole}}.</span><span class="a-price-fraction">{{.Fraction}}</span></span>
{{- else if eq .Layout "deal"}}
<span id="priceblock_dealprice">${{.Price}}</span>
{{- end}}
{{- if .Availability}}
<div id="availability"><span class="a-size-medium">{{.Availability}}</span></div>
{{- end}}
</body></html>
`))

type pageData struct {
	product
	Whole    string
	Fraction string
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	fixtureFile := flag.String("fixture", "", "path to a products fixture (default: embedded)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data := defaultFixture
	if *fixtureFile != "" {
		var err error
		data, err = os.ReadFile(*fixtureFile) //nolint:gosec // fixture path from trusted CLI flag
		if err != nil {
			logger.Error("failed to read fixture", "path", *fixtureFile, "error", err)
			os.Exit(1)
		}
	}

	cat, err := parseCatalog(data)
	if err != nil {
		logger.Error("failed to load fixture", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "products", len(cat.Products))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock shop", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newMux(logger, cat),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func parseCatalog(data []byte) (*catalog, error) {
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &c, nil
}

func newMux(logger *slog.Logger, cat *catalog) http.Handler {
	byASIN := make(map[string]product, len(cat.Products))
	for _, p := range cat.Products {
		byASIN[p.ASIN] = p
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /dp/{asin}", productHandler(logger, byASIN))
	mux.HandleFunc("GET /blocked/{asin}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "To discuss automated access please contact us.", http.StatusServiceUnavailable)
	})
	return requestLogger(logger, mux)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "user_agent", r.UserAgent())
		next.ServeHTTP(w, r)
	})
}

func productHandler(logger *slog.Logger, products map[string]product) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asin := r.PathValue("asin")
		p, ok := products[asin]
		if !ok {
			http.NotFound(w, r)
			return
		}

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, newPageData(p)); err != nil {
			logger.Error("rendering page", "asin", asin, "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write(buf.Bytes())
		logger.Info("served product", "asin", asin, "layout", p.Layout)
	}
}

func newPageData(p product) pageData {
	d := pageData{product: p}
	if p.Layout == "split" {
		d.Whole, d.Fraction = splitPrice(p.Price)
	}
	return d
}

// splitPrice separates "1,249.00" into "1,249" and "00".
func splitPrice(price string) (whole, fraction string) {
	for i := len(price) - 1; i >= 0; i-- {
		if price[i] == '.' {
			return price[:i], price[i+1:]
		}
	}
	return price, "00"
}
