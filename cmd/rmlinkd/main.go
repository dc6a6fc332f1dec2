package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/rmlink/pkg/bridge/mqtt"
	"github.com/robotalks/rmlink/pkg/env"
	fx "github.com/robotalks/rmlink/pkg/framework"
	"github.com/robotalks/rmlink/pkg/metrics"
	"github.com/robotalks/rmlink/pkg/rmlink"
)

func init() {
	env.SetupFlags()
}

func serveMetrics(addr string, handler http.Handler) fx.Runnable {
	return fx.NamedRun("metrics", fx.RunFunc(func(ctx context.Context) error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		glog.Infof("metrics on http://%s/metrics", ln.Addr())
		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)
		server := &http.Server{Handler: mux}
		return fx.RunWithContextCloser(ctx, server, func() error {
			return server.Serve(ln)
		})
	}))
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.NewConfig()
	runner := fx.NewRunner().HandleSignals()
	runner.FailFast = true

	var opts []rmlink.SessionOption
	if conf.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		opts = append(opts, rmlink.WithObserver(metrics.NewObserver(reg)))
		runner.Go(serveMetrics(conf.MetricsAddr, metrics.Handler(reg)))
	}

	q, err := mqtt.NewQueueFromURL(conf.MQTTBrokerURL)
	if err != nil {
		log.Fatalln(err)
	}

	dev := conf.MustOpenDevice()
	defer dev.Close()
	client := rmlink.NewClient(conf.NewLink(dev, opts...))
	defer client.Close()
	bridge := mqtt.NewBridge(conf.ID, q, client)

	glog.Infof("bridging %s as %q via %s", conf.Device, conf.ID, conf.MQTTBrokerURL)
	runner.Go(fx.NamedRun("link", client), bridge.Runnable())
	if err := runner.Wait(); err != nil {
		glog.Error(err)
	}
}
