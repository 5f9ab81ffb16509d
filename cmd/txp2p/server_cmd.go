package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dplane-collective/solana-tx-p2p/internal/grpcapi"
	"github.com/dplane-collective/solana-tx-p2p/internal/httpapi"
	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
	"github.com/dplane-collective/solana-tx-p2p/internal/metricsapi"
	"github.com/dplane-collective/solana-tx-p2p/internal/query"
)

const gracefulShutdownTimeout = 10 * time.Second

func newServerCmd() *cobra.Command {
	var cfg nodeConfig
	var debug bool

	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"run"},
		Short:   "Run the node actors plus metrics, HTTP, gRPC, and websocket servers",
	}

	nodeFlags(cmd.Flags(), &cfg)
	api, grpcCfg, metricsCfg, _ := serverFlags(cmd.Flags())
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.MarkFlagRequired("solana-program-id")
	cmd.MarkFlagRequired("solana-rpc-url")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, cfg, debug, api, grpcCfg, metricsCfg)
	}

	return cmd
}

func runServer(cmd *cobra.Command, cfg nodeConfig, debug bool, api, grpcCfg, metricsCfg *apiConfig) error {
	logging.Init(debug)
	defer logging.Sync()
	log := logging.Named("server")

	if cfg.solanaProgramID == "" || cfg.solanaRPCURL == "" {
		return fmt.Errorf("txp2p: --solana-program-id and --solana-rpc-url are required")
	}

	ctx := cmd.Context()
	n, err := buildNode(ctx, cfg)
	if err != nil {
		return err
	}

	svc := query.NewDefaultPeerService(n.hub.Inbound(), n.chain)

	httpSrv := &http.Server{
		Addr:    api.socketAddress(),
		Handler: withWebsocket(httpapi.NewRouter(svc), n.ws),
	}
	go func() {
		log.Info("http api listening", zap.String("addr", api.socketAddress()))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http api server failed", zap.Error(err))
		}
	}()

	metricsSrv := &http.Server{
		Addr:    metricsCfg.socketAddress(),
		Handler: metricsapi.Handler(n.metricsReg),
	}
	go func() {
		log.Info("metrics server listening", zap.String("addr", metricsCfg.socketAddress()))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	grpcListener, err := net.Listen("tcp", grpcCfg.socketAddress())
	if err != nil {
		return fmt.Errorf("txp2p: listen grpc: %w", err)
	}
	grpcSrv := grpcapi.NewServer(svc)
	go func() {
		log.Info("grpc server listening", zap.String("addr", grpcCfg.socketAddress()))
		if err := grpcSrv.Serve(grpcListener); err != nil {
			log.Error("grpc server failed", zap.Error(err))
		}
	}()

	go func() {
		<-n.shutdown.Signal.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
		grpcSrv.GracefulStop()
	}()

	return n.run(ctx)
}

func withWebsocket(mux http.Handler, hub interface{ ServeHTTP(http.ResponseWriter, *http.Request) }) http.Handler {
	wrapped := http.NewServeMux()
	wrapped.Handle("/api/v1/peer/ws", hub)
	wrapped.Handle("/", mux)
	return wrapped
}
