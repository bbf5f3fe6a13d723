// Package main 提供 dds 守护进程入口
//
// 以给定 id 与配置文件启动一个域并常驻，同时暴露 Prometheus
// 指标端点，直到收到退出信号。
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-dds"
)

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	domainID    = flag.Uint("domain", 0, "域 id")
	configFile  = flag.String("config", "", "JSON 配置文件路径")
	metricsAddr = flag.String("metrics", "", "指标端点监听地址（空 = 不开启）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(dds.VersionInfo())
		return nil
	}

	configText := ""
	if *configFile != "" {
		data, err := os.ReadFile(*configFile) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
		if err != nil {
			return fmt.Errorf("读取配置文件: %w", err)
		}
		configText = string(data)
	}

	dom, err := dds.CreateDomain(dds.DomainID(*domainID), configText)
	if err != nil {
		return fmt.Errorf("创建域: %w", err)
	}
	fmt.Printf("域 %d 已启动\n", dom.ID())

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintln(os.Stderr, "指标端点:", err)
			}
		}()
		fmt.Println("指标端点:", *metricsAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Println("正在退出...")
	return dom.Release()
}
