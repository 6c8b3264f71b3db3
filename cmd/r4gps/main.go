package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilneill/R4-GPS-DataParsing/internal/config"
	"github.com/ilneill/R4-GPS-DataParsing/internal/display"
	"github.com/ilneill/R4-GPS-DataParsing/internal/gps"
	"github.com/ilneill/R4-GPS-DataParsing/internal/heartbeat"
	"github.com/ilneill/R4-GPS-DataParsing/internal/publish"
	"github.com/ilneill/R4-GPS-DataParsing/internal/replay"
	"github.com/ilneill/R4-GPS-DataParsing/internal/sim"
	"github.com/ilneill/R4-GPS-DataParsing/internal/udp"
	"github.com/ilneill/R4-GPS-DataParsing/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./r4gps.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svcCfg := gps.Config{
		Device:          cfg.Serial.Device,
		Baud:            cfg.Serial.Baud,
		ZoneOffsetHours: cfg.Time.ZoneOffsetHours,
		StaleAfter:      cfg.Acquisition.StaleAfter,
		RingSize:        cfg.Acquisition.RingSize,
	}

	switch cfg.Source {
	case "replay":
		r, err := replay.Open(cfg.Replay.Path, cfg.Replay.Interval, cfg.Replay.Loop)
		if err != nil {
			log.Fatalf("replay open failed: %v", err)
		}
		svcCfg.Source = r
		svcCfg.SourceName = "replay"
	case "sim":
		svcCfg.Source = &sim.Receiver{
			CenterLatDeg: cfg.Sim.CenterLatDeg,
			CenterLonDeg: cfg.Sim.CenterLonDeg,
			RadiusNm:     cfg.Sim.RadiusNm,
			Period:       cfg.Sim.Period,
			Interval:     cfg.Sim.Interval,
			Satellites:   cfg.Sim.Satellites,
		}
		svcCfg.SourceName = "sim"
	}

	if cfg.UDP.Dest != "" {
		feeder, err := udp.NewFeeder(cfg.UDP.Dest)
		if err != nil {
			log.Fatalf("udp feed init failed: %v", err)
		}
		defer feeder.Close()
		svcCfg.OnAccepted = func(line []byte) {
			if err := feeder.Send(line); err != nil {
				log.Printf("udp feed send failed: %v", err)
			}
		}
		log.Printf("udp feed enabled dest=%s", cfg.UDP.Dest)
	}

	svc := gps.New(svcCfg)
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("gps start failed: %v", err)
	}
	defer svc.Close()

	log.Printf("r4gps starting source=%s", cfg.Source)

	if cfg.Display.Enable {
		console := display.NewConsole(svc, os.Stdout, cfg.Display.Period)
		go console.Run(ctx)
	}

	if cfg.Heartbeat.Enable {
		led, err := heartbeat.OpenLED(cfg.Heartbeat.GPIOPin)
		if err != nil {
			// Best-effort collaborator; acquisition runs without it.
			log.Printf("heartbeat disabled: %v", err)
		} else {
			go heartbeat.Run(ctx, led, cfg.Heartbeat.Period)
		}
	}

	if cfg.MQTT.Enable {
		pub, err := publish.NewMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			defer pub.Close()
			log.Printf("mqtt publisher enabled broker=%s topic=%s", cfg.MQTT.Broker, cfg.MQTT.Topic)
			go func() {
				t := time.NewTicker(cfg.MQTT.Period)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-t.C:
						if err := pub.Publish(svc.Snapshot()); err != nil {
							log.Printf("mqtt publish failed: %v", err)
						}
					}
				}
			}()
		}
	}

	if cfg.Web.Listen != "" {
		go func() {
			log.Printf("web status on http://%s/api/status", cfg.Web.Listen)
			if err := web.Serve(ctx, cfg.Web.Listen, web.Handler(svc)); err != nil && ctx.Err() == nil {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Printf("r4gps stopping")
}
