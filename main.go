// Command snake starts the canvas snake game server.
//
// It supports three modes:
//  1. "serve" (default) – runs the HTTP server exposing the browser client, REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays one game in the terminal
//
// Flags control host/port, config directory, debug logging, food placement
// seeding, and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/canvas-snake/api"
	"github.com/wricardo/canvas-snake/game/config"
	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/render"
	"github.com/wricardo/canvas-snake/game/service"
	"github.com/wricardo/canvas-snake/game/session"
	"github.com/wricardo/canvas-snake/transport/mcp"
	"github.com/wricardo/canvas-snake/transport/websocket"
	"github.com/wricardo/canvas-snake/web"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Canvas Snake Server"
)

// options are the resolved command line flags
type options struct {
	host        string
	port        int
	configDir   string
	debug       bool
	seed        uint64
	sessionTTL  time.Duration
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// newApp builds the command tree. Flags declared on the root are inherited by every mode.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "snake",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.Uint64Flag{Name: "seed", Usage: "Seed food placement for reproducible games (0 picks a random seed)", Sources: cli.EnvVars("SNAKE_SEED")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "Remove sessions not accessed for this long"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with browser client, API, WebSocket, and MCP endpoint",
				Action:  serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  mcpAction,
			},
			{
				Name:  "play",
				Usage: "Play in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Preset name or path to a preset .json file (defaults to classic)"},
				},
				Action: playAction,
			},
		},
	}
}

// main loads .env, then runs the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// optionsFrom reads flags and configures logging
func optionsFrom(cmd *cli.Command) options {
	opts := options{
		host:        cmd.String("host"),
		port:        int(cmd.Int("port")),
		configDir:   cmd.String("config-dir"),
		debug:       cmd.Bool("debug"),
		seed:        cmd.Uint64("seed"),
		sessionTTL:  cmd.Duration("session-ttl"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}

	// Setup logging
	if opts.debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
	return opts
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	app, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer app.Close()

	return runHTTPServer(ctx, app, opts)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	// Logs go to stderr; stdout carries the MCP protocol
	log.Printf("Starting %s v%s (mode: mcp)", AppName, Version)

	app, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer app.Close()

	return runStdioMCPWithInternalServer(app, opts)
}

// application holds the wired services shared by the server modes
type application struct {
	service  service.GameService
	sessions *session.Manager
	hub      *websocket.Hub
	cancel   context.CancelFunc
}

// Close stops background routines and every session
func (a *application) Close() {
	a.cancel()
	a.sessions.Close()
}

// engineOptions turns the seed flag into engine options
func engineOptions(opts options) []engine.Option {
	if opts.seed == 0 {
		return nil
	}
	return []engine.Option{engine.WithSeed(opts.seed)}
}

// initializeServices wires the hub, session/config managers and the game service.
// It also starts the hub and a background cleanup routine to prune stale sessions.
func initializeServices(ctx context.Context, opts options) (*application, error) {
	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	// Frames and game over events from every session go to its WebSocket clients
	hub := websocket.NewHub()
	sessionManager := session.NewManager(
		session.WithHooksFactory(hub.Hooks),
		session.WithEngineOptions(engineOptions(opts)...),
	)

	gameService := service.NewGameService(sessionManager, configManager)
	hub.SetInputHandler(func(ctx context.Context, sessionID string, ev input.Event) error {
		_, err := gameService.HandleInput(ctx, sessionID, ev)
		return err
	})

	ctx, cancel := context.WithCancel(ctx)
	go hub.Run(ctx)
	go sessionCleanupRoutine(ctx, sessionManager, time.Hour, opts.sessionTTL)

	return &application{
		service:  gameService,
		sessions: sessionManager,
		hub:      hub,
		cancel:   cancel,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(maxAge)
			if removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter combines the API server, browser client and the /mcp endpoint
func newRouter(app *application, baseURL string) http.Handler {
	apiServer := api.NewServer(app.service, app.hub, api.WithStatic(web.Static()))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return mainRouter
}

// runHTTPServer starts the HTTP server with the browser client, REST API, WebSocket hub,
// and an /mcp proxy endpoint. If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, app *application, opts options) error {
	addr := opts.addr()
	mainRouter := newRouter(app, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		// WebSocket connections outlive any write timeout; the hub sets its own deadlines
		IdleTimeout: 60 * time.Second,
	}

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("Game UI: http://%s/", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	// Start ngrok tunnel if enabled
	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter)
		}()
	}

	// Wait for shutdown signal
	var err error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case err = <-serveErr:
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is cancelled
func runNgrokTunnel(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	// Configure ngrok endpoint
	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(opts.ngrokAuth),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  Game UI (ngrok): %s/", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	// Serve HTTP through ngrok tunnel
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// probeAPI reports whether a snake API answers at baseURL
func probeAPI(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(app *application, opts options) error {
	externalURL := fmt.Sprintf("http://%s", opts.addr())
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if probeAPI(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		// Start internal HTTP server on a random available port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{
			Handler: api.NewServer(app.service, app.hub),
		}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func playAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)

	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	cfg := configManager.GetDefault()
	switch name := cmd.String("config"); {
	case strings.HasSuffix(name, ".json"):
		// A path to a preset file outside the config directory
		if cfg, err = engine.LoadGameConfig(name); err != nil {
			return err
		}
	case name != "":
		if cfg, err = configManager.LoadConfig(name); err != nil {
			return err
		}
	}

	kb := input.NewKeyboardHandler()
	if err := kb.Start(); err != nil {
		return fmt.Errorf("failed to open keyboard: %w", err)
	}
	defer kb.Stop()

	return playTerminal(ctx, cfg, engineOptions(opts), kb.GetInputChan(), os.Stdout)
}

// playTerminal runs one session against keys until quit, drawing every frame to out
func playTerminal(ctx context.Context, cfg *engine.GameConfig, engineOpts []engine.Option, keys <-chan input.KeyInput, out io.Writer) error {
	eng, err := engine.NewEngine(cfg, engineOpts...)
	if err != nil {
		return err
	}

	// Keep only the newest frame; the session goroutine is the single producer
	frames := make(chan session.Frame, 1)
	ctrl := session.NewController(eng, session.WithHooks(session.Hooks{
		OnFrame: func(f session.Frame) {
			select {
			case frames <- f:
			default:
				select {
				case <-frames:
				default:
				}
				frames <- f
			}
		},
	}))

	sess := session.NewSession("tty", ctrl)
	sess.Start(ctx)
	defer sess.Close()

	if err := sess.Do(ctx, func(c *session.Controller) { c.Redraw() }); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-frames:
			drawTerminal(out, f)
		case key, ok := <-keys:
			if !ok || input.IsQuit(key) {
				return nil
			}
			ev := input.Event{Type: input.EventKey, Key: input.KeyName(key)}
			if input.IsRestart(key) {
				ev = input.Event{Type: input.EventButton, Button: "restart"}
			}
			if err := sess.Do(ctx, func(c *session.Controller) { c.HandleEvent(ev) }); err != nil {
				return err
			}
		}
	}
}

// drawTerminal clears the screen and prints the frame as glyphs
func drawTerminal(out io.Writer, f session.Frame) {
	if f.State == nil {
		return
	}
	term := render.NewTerminal(f.State.Grid, f.Stats.Grid)
	render.Replay(term, f.Commands)
	if f.State.CrashPoint != nil {
		term.MarkCrash(*f.State.CrashPoint)
	}

	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	fmt.Fprintf(&b, "Score: %d  Speed: %d", f.Stats.Score, f.Stats.Speed)
	if f.State.HasFood && len(f.State.Snake) > 0 {
		fmt.Fprintf(&b, "  Food: %d away", engine.WrappedDistance(f.State.Grid, f.State.Snake[0], f.State.Food))
	}
	b.WriteString("\n")
	b.WriteString(term.String())
	b.WriteString(f.Message + "\n")
	b.WriteString("Arrows/WASD: Turn | Space: Start/Pause | +/-: Speed | R: Restart | Q: Quit\n")

	// The keyboard holds the terminal in raw mode
	io.WriteString(out, strings.ReplaceAll(b.String(), "\n", "\r\n"))
}
