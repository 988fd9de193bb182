package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokconfig "golang.ngrok.com/ngrok/config"

	vtcfg "github.com/vtcore/vtcore/pkg/config"
	"github.com/vtcore/vtcore/pkg/logging"
	vtmux "github.com/vtcore/vtcore/pkg/mux"
	"github.com/vtcore/vtcore/pkg/mux/transport"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var listen string
	var codecListen string
	var tlsDomain, tlsEmail string
	var tunnel bool
	var dev bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run a mux server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(dev)
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg := vtcfg.Default()
			if configPath != "" {
				cfg, err = vtcfg.Load(configPath)
				if err != nil {
					return err
				}
				if w, err := vtcfg.NewWatcher(configPath, log); err != nil {
					log.Warn("config hot-reload disabled", zap.Error(err))
				} else {
					defer w.Close()
				}
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if codecListen != "" {
				cfg.CodecListen = codecListen
			}
			if tlsDomain != "" {
				cfg.TLSDomain = tlsDomain
			}
			if tlsEmail != "" {
				cfg.TLSEmail = tlsEmail
			}

			m := vtmux.New()
			domain := vtmux.NewLocalDomain("local")
			m.AddDomain(domain)
			dispatcher := transport.NewMuxDispatcher(m, domain.Id)

			router := mux.NewRouter()
			router.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
			router.HandleFunc("/panes", panesHandler(m)).Methods(http.MethodGet)
			router.Handle("/ws", transport.NewWebSocketHandler(dispatcher, log))

			codecLn, err := net.Listen("tcp", cfg.CodecListen)
			if err != nil {
				return fmt.Errorf("listening for codec clients on %s: %w", cfg.CodecListen, err)
			}
			codecServer := transport.NewTCPServer(dispatcher, log)
			go func() {
				if err := codecServer.Serve(codecLn); err != nil {
					log.Warn("codec listener stopped", zap.Error(err))
				}
			}()
			log.Info("codec listener ready for CLI clients", zap.String("addr", codecLn.Addr().String()))

			ln, err := listenerFor(cfg, tunnel)
			if err != nil {
				return err
			}
			log.Info("mux server listening", zap.String("addr", ln.Addr().String()))
			return http.Serve(ln, router)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP/websocket listen address, overrides the config file")
	cmd.Flags().StringVar(&codecListen, "codec-listen", "", "plain TCP codec listen address for CLI clients, overrides the config file")
	cmd.Flags().StringVar(&tlsDomain, "tls-domain", "", "enable automatic TLS for this domain name")
	cmd.Flags().StringVar(&tlsEmail, "tls-email", "", "contact email for ACME certificate registration")
	cmd.Flags().BoolVar(&tunnel, "tunnel", false, "expose the listener through an ngrok tunnel")
	cmd.Flags().BoolVar(&dev, "dev", false, "use a human-readable development logger")

	return cmd
}

func listenerFor(cfg vtcfg.Config, tunnel bool) (net.Listener, error) {
	if tunnel {
		return ngrok.Listen(context.Background(), ngrokconfig.HTTPEndpoint(), ngrok.WithAuthtokenFromEnv())
	}
	if cfg.TLSDomain != "" {
		return transport.ListenAutoTLS(cfg.Listen, cfg.TLSDomain, cfg.TLSEmail)
	}
	return net.Listen("tcp", cfg.Listen)
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func panesHandler(m *vtmux.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type paneInfo struct {
			WindowID uint32 `json:"window_id"`
			TabID    uint32 `json:"tab_id"`
			Title    string `json:"title"`
		}
		var out []paneInfo
		for _, win := range m.Windows() {
			for _, tab := range win.Tabs() {
				out = append(out, paneInfo{WindowID: uint32(win.Id()), TabID: uint32(tab.Id()), Title: win.Title()})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			fmt.Fprintln(w, err)
		}
	}
}
