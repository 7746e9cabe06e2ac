// routectl управляет маршрутом из командной строки через API сервиса маршрутов.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"route-optimizer-go/internal/client"
	"route-optimizer-go/internal/config"
	"route-optimizer-go/internal/controller"
	"route-optimizer-go/internal/geo"
	"route-optimizer-go/internal/optimizer"
	"route-optimizer-go/internal/view"
	"route-optimizer-go/pkg/models"
)

const usage = `Usage: routectl [flags] <command> [args]

Commands:
  show                 print the stored route with leg estimates
  add LAT LNG          append a point to the route
  remove N             remove point number N (1-based)
  draw                 send the current route to the service and print it
  optimize [-remote]   reorder the route with 2-opt, locally or on the server
  load                 load the stored route
  clear                remove every point
  save                 save the current route
  health               check the route service

Flags:
`

func main() {
	cfg := config.LoadConfig()

	baseURL := flag.String("url", cfg.RouteAPI.BaseURL, "route service base URL")
	timeout := flag.Duration("timeout", cfg.RouteAPI.Timeout, "timeout of a single request to the route service")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Некорректная конфигурация: %v", err)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	api := client.NewRouteAPIClient(*baseURL, *timeout, logger)
	calc := geo.NewCalculator(cfg.Vehicle)
	presenter := &finalViewPresenter{TextPresenter: view.NewTextPresenter(os.Stdout)}
	ctrl := controller.New(
		api,
		presenter,
		calc,
		optimizer.New(calc.DistanceKm, cfg.Optimizer.MaxPasses),
		*timeout,
		logger,
	)

	err := run(context.Background(), ctrl, api, flag.Arg(0), flag.Args()[1:])
	presenter.Flush()
	if err != nil {
		os.Exit(1)
	}
}

// finalViewPresenter печатает уведомления сразу, а маршрут только один раз
// после выполнения команды
type finalViewPresenter struct {
	*view.TextPresenter
	last *view.RouteView
}

func (p *finalViewPresenter) Render(v view.RouteView) {
	p.last = &v
}

func (p *finalViewPresenter) Flush() {
	if p.last != nil {
		p.TextPresenter.Render(*p.last)
	}
}

// run выполняет одну команду. Ошибки уже показаны пользователю
// уведомлениями контроллера, кроме ошибок разбора аргументов
func run(ctx context.Context, ctrl *controller.Controller, api *client.RouteAPIClient, cmd string, args []string) error {
	switch cmd {
	case "show":
		return ctrl.Init(ctx)

	case "add":
		if len(args) != 2 {
			return argError("add needs LAT and LNG")
		}
		lat, err := parseFloat("lat", args[0])
		if err != nil {
			return err
		}
		lng, err := parseFloat("lng", args[1])
		if err != nil {
			return err
		}
		if err := ctrl.Init(ctx); err != nil {
			return err
		}
		return ctrl.AddPoint(ctx, models.Waypoint{Lat: lat, Lng: lng})

	case "remove":
		if len(args) != 1 {
			return argError("remove needs a point number")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return argError(fmt.Sprintf("invalid point number %q", args[0]))
		}
		if err := ctrl.Init(ctx); err != nil {
			return err
		}
		return ctrl.RemovePoint(ctx, n-1)

	case "draw":
		if err := ctrl.Init(ctx); err != nil {
			return err
		}
		return ctrl.Draw(ctx)

	case "optimize":
		fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
		remote := fs.Bool("remote", false, "run the optimization on the server")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := ctrl.Init(ctx); err != nil {
			return err
		}
		if *remote {
			return ctrl.OptimizeRemote(ctx)
		}
		_, err := ctrl.Optimize(ctx)
		return err

	case "load":
		return ctrl.Load(ctx)

	case "clear":
		return ctrl.Clear(ctx)

	case "save":
		if err := ctrl.Init(ctx); err != nil {
			return err
		}
		return ctrl.Save(ctx)

	case "health":
		resp, err := api.Health(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "route service is unavailable: %v\n", err)
			return err
		}
		fmt.Printf("%s (version %s)\n", resp.Status, resp.Version)
		return nil
	}

	flag.Usage()
	return argError(fmt.Sprintf("unknown command %q", cmd))
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, argError(fmt.Sprintf("invalid %s %q", name, s))
	}
	return v, nil
}

func argError(msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	return errors.New(msg)
}
