package api

import (
	"net/http"

	_ "github.com/AlexZinkM/dapp-wallet/docs"
	"github.com/AlexZinkM/dapp-wallet/internal/handler"
	"github.com/AlexZinkM/dapp-wallet/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers. wallet may be nil when the
// provider is not operated locally; the /wallet routes are then omitted.
func SetupRouter(controller *session.Controller, wallet handler.AccountManager, opts handler.Options, gatherer prometheus.Gatherer, logger *zap.Logger) (http.Handler, error) {
	sessionHandler, err := handler.NewSessionHandler(controller, opts, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Session endpoints
	mux.HandleFunc("/session", sessionHandler.GetSession)
	mux.HandleFunc("/session/connect", sessionHandler.Connect)
	mux.HandleFunc("/session/disconnect", sessionHandler.Disconnect)
	mux.HandleFunc("/session/qr", sessionHandler.QRCode)
	mux.HandleFunc("/session/stream", sessionHandler.Stream)
	mux.HandleFunc("/network/switch", sessionHandler.SwitchNetwork)

	if wallet != nil {
		walletHandler, err := handler.NewWalletHandler(wallet, logger)
		if err != nil {
			return nil, err
		}
		mux.HandleFunc("/wallet/lock", walletHandler.Lock)
		mux.HandleFunc("/wallet/accounts", walletHandler.SetAccounts)
	}

	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return mux, nil
}
