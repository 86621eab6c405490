package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lending/handler"

	"github.com/drone/signal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lending api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		s := provideServices()

		if err := listConfiguredMarkets(ctx, s.markets); err != nil {
			logrus.WithError(err).Fatal("list configured markets")
		}

		ctx, quit := context.WithCancel(ctx)
		if withWorker, _ := cmd.Flags().GetBool("worker"); withWorker {
			// the in-memory store can't be shared with a separate worker process
			go runWorkers(ctx, s)
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: handler.New(provideConfig(), s.rest(), rootCmd.Version).Handler(),
		}

		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("worker", false, "run workers in the server process")
}
