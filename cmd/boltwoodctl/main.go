package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/client"
	"github.com/Diffraction-Limited/goboltwood/internal/logging"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/Diffraction-Limited/goboltwood/internal/protocol/threshold"
	"github.com/Diffraction-Limited/goboltwood/internal/transport"
)

const usage = `usage: boltwoodctl [flags] <command> [args]

commands:
  get <interface> <property>          read one property
  put <interface> <property> <value>  write one property
  all <interface>                     read and decode the ALL dump (OC, EN)
  safe                                read the safety monitor state
  thresholds                          read the OC threshold table
  set-threshold <transition> <value> <0|1>  update one threshold and write back
  watch                               poll OC ALL until interrupted

flags:
`

func main() {
	logging.ConfigureRuntime()

	configPath := flag.String("config", "", "toml config file for the serial link")
	port := flag.String("port", "", "serial port (overrides config)")
	baud := flag.Int("baud", 0, "baud rate (overrides config)")
	interval := flag.Duration("interval", 10*time.Second, "watch poll interval")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := transport.DefaultConfig()
	if *configPath != "" {
		loaded, err := loadTransportConfig(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = loaded
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud > 0 {
		cfg.BaudRate = *baud
	}

	serial, err := transport.OpenSerial(cfg)
	if err != nil {
		fatal(err)
	}
	defer serial.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, client.New(serial), args, *interval); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "boltwoodctl: %v\n", err)
	os.Exit(1)
}

func run(ctx context.Context, c *client.Client, args []string, interval time.Duration) error {
	switch args[0] {
	case "get":
		if len(args) != 3 {
			return fmt.Errorf("get needs <interface> <property>")
		}
		iface, err := registry.ParseInterface(args[1])
		if err != nil {
			return err
		}
		value, err := c.Get(ctx, iface, args[2])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "put":
		if len(args) != 4 {
			return fmt.Errorf("put needs <interface> <property> <value>")
		}
		iface, err := registry.ParseInterface(args[1])
		if err != nil {
			return err
		}
		return c.Put(ctx, iface, args[2], args[3])

	case "all":
		if len(args) != 2 {
			return fmt.Errorf("all needs <interface>")
		}
		iface, err := registry.ParseInterface(args[1])
		if err != nil {
			return err
		}
		rec, err := c.GetAll(ctx, iface)
		if err != nil {
			return err
		}
		for _, v := range rec.Values() {
			fmt.Printf("%-24s %s\n", v.Name, v.Raw)
		}
		return nil

	case "safe":
		safe, err := c.IsSafe(ctx)
		if err != nil {
			return err
		}
		if safe {
			fmt.Println("safe")
		} else {
			fmt.Println("unsafe")
		}
		return nil

	case "thresholds":
		rec, err := c.GetThresholds(ctx)
		if err != nil {
			return err
		}
		for _, tr := range threshold.Order {
			e, _ := rec.Get(tr)
			trigger := "-"
			if e.Trigger {
				trigger = "trigger"
			}
			fmt.Printf("%-18s %-10s %s\n", tr, e.Raw(), trigger)
		}
		return nil

	case "set-threshold":
		if len(args) != 4 {
			return fmt.Errorf("set-threshold needs <transition> <value> <0|1>")
		}
		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("parse value: %w", err)
		}
		if args[3] != "0" && args[3] != "1" {
			return fmt.Errorf("trigger flag must be 0 or 1, got %q", args[3])
		}
		trigger := args[3] == "1"
		rec, err := c.GetThresholds(ctx)
		if err != nil {
			return err
		}
		tr := threshold.Transition(args[1])
		if err := rec.SetValue(tr, value); err != nil {
			return err
		}
		if err := rec.SetTrigger(tr, trigger); err != nil {
			return err
		}
		return c.PutThresholds(ctx, rec)

	case "watch":
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			rec, err := c.GetAll(ctx, registry.ObservingConditions)
			if err != nil {
				return err
			}
			sky, _ := rec.Number("sky_temperature")
			ambient, _ := rec.Number("temperature")
			wind, _ := rec.Number("wind_speed")
			fmt.Printf("%s  sky=%.1f ambient=%.1f wind=%.1f\n",
				time.Now().Format(time.TimeOnly), sky, ambient, wind)
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
