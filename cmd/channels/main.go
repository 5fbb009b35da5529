// Package main 提供 channels 命令行入口
//
// 服务端模式按配置文件或命令行参数启动监听器：
//
//	channels -transport tcp -port 9000 -profile lines
//	channels -config channels.json
//
// 客户端模式连接到服务端，把标准输入的每一行发送出去，收到的数据写到标准输出：
//
//	channels -connect 127.0.0.1:9000
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	channels "github.com/dep2p/go-channels"
	"github.com/dep2p/go-channels/config"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("channels/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile = flag.String("config", "", "配置文件路径（设置后忽略监听参数）")

	transport   = flag.String("transport", "tcp", "传输类型 (tcp/udp/websocket)")
	address     = flag.String("address", "", "监听地址")
	port        = flag.Int("port", 9000, "监听端口")
	profile     = flag.String("profile", "lines", "服务端管道配置 (echo/lines)")
	idleMode    = flag.String("idle", "none", "空闲检测模式 (none/auto/read/write/both)")
	idleTimeout = flag.Duration("idle-timeout", 0, "空闲超时")

	connect = flag.String("connect", "", "客户端模式：服务端地址 host:port 或 ws:// URL")

	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)，覆盖配置文件")
	metricsAddr = flag.String("metrics", "", "Prometheus 指标地址，例如 :9100")
	fxLogging   = flag.Bool("fx-log", false, "输出 fx 装配日志")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	reg := prometheus.NewRegistry()
	h, err := channels.New(
		channels.WithConfig(cfg),
		channels.WithProfile(echoProfile(), linesProfile(), printProfile(os.Stdout)),
		channels.WithMetricsRegisterer(reg),
		channels.WithFxLogging(*fxLogging),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := h.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	if *metricsAddr != "" {
		stop := serveMetrics(*metricsAddr, reg)
		defer stop()
	}

	for _, l := range h.Listeners() {
		fmt.Printf("监听 %s %s\n", l.Kind(), l.Addr())
	}

	if *connect != "" {
		c, _ := h.Client("cli")
		go pumpStdin(ctx, c)
	}

	select {
	case <-ctx.Done():
	case <-h.Done():
	}
	fmt.Println("\n正在关闭...")
	return nil
}

// buildConfig 按参数构建配置
//
// 配置优先级：-config 文件 > 命令行参数。-connect 总是追加一个客户端。
func buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.FromFile(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if *connect == "" {
		lc := config.DefaultListenerConfig()
		lc.Name = *transport
		lc.Transport = *transport
		lc.Address = *address
		lc.Port = *port
		lc.Profile = *profile
		lc.Idle = config.IdleConfig{Mode: *idleMode, Timeout: config.Duration(*idleTimeout)}
		cfg.Listeners = append(cfg.Listeners, lc)
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *connect != "" {
		cc, err := clientConfig(*connect)
		if err != nil {
			return nil, err
		}
		cfg.Clients = append(cfg.Clients, cc)
	}
	return cfg, cfg.Validate()
}

func clientConfig(target string) (config.ClientConfig, error) {
	cc := config.DefaultClientConfig()
	cc.Name = "cli"
	cc.Transport = *transport
	cc.Profile = "print"

	kind, err := types.ParseTransportKind(*transport)
	if err != nil {
		return cc, err
	}
	if kind == types.TransportWebSocket && (strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://")) {
		cc.URL = target
		return cc, nil
	}

	host, p, err := net.SplitHostPort(target)
	if err != nil {
		return cc, fmt.Errorf("invalid -connect %q: %w", target, err)
	}
	cc.Host = host
	if cc.Port, err = strconv.Atoi(p); err != nil {
		return cc, fmt.Errorf("invalid -connect port %q: %w", p, err)
	}
	return cc, nil
}

// pumpStdin 把标准输入逐行写到客户端当前通道，未连接时丢弃并提示
func pumpStdin(ctx context.Context, c *channels.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		ch := c.Channel()
		if ch == nil {
			fmt.Fprintf(os.Stderr, "未连接（%s），丢弃输入\n", c.State())
			continue
		}
		if err := ch.Write(ctx, []byte(scanner.Text()+"\n")); err != nil {
			logger.Warn("发送失败", "error", err)
		}
	}
}

// serveMetrics 启动指标 HTTP 服务，返回停止函数
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务异常退出", "error", err)
		}
	}()
	fmt.Printf("指标 http://%s/metrics\n", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
