package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"fontpair/internal/logging"
	synchub "fontpair/internal/sync"
	"fontpair/pkg/utils"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP event feed address")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	only := flag.String("type", "", "comma-separated event types to show")
	flag.Parse()

	logger := logging.New(utils.LogConfig{Level: "info"}, os.Stderr).WithPrefix("events-client")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filter := map[string]bool{}
	for _, t := range strings.Split(*only, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter[t] = true
		}
	}

	for {
		if err := run(ctx, *addr, *pretty, filter, logger); err != nil && ctx.Err() == nil {
			logger.Warn("disconnected", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second): // reconnect
		}
	}
}

func run(ctx context.Context, addr string, pretty bool, filter map[string]bool, logger *log.Logger) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	logger.Info("connected", "addr", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var ev synchub.CatalogEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// not JSON, print raw
			fmt.Println(string(line))
			continue
		}
		if len(filter) > 0 && !filter[ev.Type] {
			continue
		}

		if !pretty {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(ev, "", "  ")
		fmt.Println(string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("feed closed by %s", addr)
}
