// wakectl is a small CLI for poking a running wakewordd: toggle privacy
// mode and tail the event bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-wakeword/pkg/bus"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:8090", "Daemon bus address")
		prefix  = flag.String("prefix", "wakeword", "Bus topic prefix")
		privacy = flag.String("privacy", "", "Set privacy mode: on or off")
		tail    = flag.Bool("tail", false, "Print bus events until interrupted")
	)
	flag.Parse()

	if *privacy == "" && !*tail {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 5*time.Second)
	defer dialCancel()
	client, err := bus.Dial(dialCtx, *addr, *prefix)
	if err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer client.Close()

	switch *privacy {
	case "":
	case "on", "off":
		if err := client.SetPrivacyMode(*privacy == "on"); err != nil {
			log.Fatalf("privacy toggle failed: %v", err)
		}
		fmt.Printf("privacy mode %s\n", *privacy)
	default:
		log.Fatalf("invalid -privacy value %q, want on or off", *privacy)
	}

	if !*tail {
		return
	}

	// Close the connection on interrupt so Next unblocks.
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	for {
		env, err := client.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Fatalf("read failed: %v", err)
		}
		fmt.Printf("%s %s %s\n",
			time.UnixMilli(env.Timestamp).Format("15:04:05.000"),
			env.Topic,
			string(env.Data))
	}
}
