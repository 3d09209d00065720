// Package viewer serves a built Guide over HTTP: the embedded static
// viewer shell, and the guide's own JSON artifact at /guide.
package viewer

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"mime"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lpar/gzipped"

	"github.com/codasai/codasai/internal/guide"
	"github.com/codasai/codasai/internal/middleware"
	"github.com/codasai/codasai/internal/network"
)

//go:embed public
var publicFS embed.FS

// Server serves a single loaded Guide. Guide is read concurrently by
// every request; a read-write lock stands between requests and
// the *guide.Guide pointer being replaced (the CLI never hot-reloads a
// guide today, but the lock keeps Serve safe if that ever changes).
type Server struct {
	mu    sync.RWMutex
	guide *guide.Guide
}

// NewServer builds a Server over an already-built Guide.
func NewServer(g *guide.Guide) *Server {
	return &Server{guide: g}
}

// Handler builds the full routed HTTP handler: "/guide" for the JSON
// artifact, "/public/<path>" for embedded static assets, and "/" for the
// viewer shell.
func (s *Server) Handler() http.Handler {
	registerMimeTypes()

	publicDir, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}

	assetHandler := middleware.CacheControl()(
		middleware.IndexHTML()(
			gzipped.FileServer(middleware.SpaFs{Root: http.FS(publicDir)}),
		),
	)

	mux := http.NewServeMux()
	mux.Handle("/public/", http.StripPrefix("/public/", assetHandler))
	mux.HandleFunc("/guide", s.handleGuide)
	mux.Handle("/", assetHandler)

	return middleware.CORS()(mux)
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.guide
	s.mu.RUnlock()

	data, err := guide.Serialise(g)
	if err != nil {
		http.Error(w, "failed to serialise guide", http.StatusInternalServerError)
		log.Printf("error: serialise guide: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Serve listens on addr and blocks until SIGINT/SIGTERM triggers a
// graceful shutdown.
func (s *Server) Serve(addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		log.Println("Running (Press Ctrl+C to stop)")
		if err := network.PrintListenURLs(listener.Addr()); err != nil {
			log.Printf("warning: couldn't list all network addresses: %v", err)
			log.Printf("  http://%s", addr)
		}
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func registerMimeTypes() {
	mime.AddExtensionType(".js", "text/javascript")
	mime.AddExtensionType(".css", "text/css")
	mime.AddExtensionType(".html", "text/html")
	mime.AddExtensionType(".svg", "image/svg+xml")
}
