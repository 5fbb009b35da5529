// Package host 按配置装配监听器和自动重连客户端
//
// Host 持有命名的 ChannelProfile，为每个被引用的配置构建一份共享的
// 输入/输出管道，然后按 config.Config 创建监听器和客户端：
//
//	h, err := host.New(
//	    host.WithConfig(cfg),
//	    host.WithProfiles(echoProfile),
//	    host.WithEventListener(registry),
//	)
//	if err := h.Start(ctx); err != nil { ... }
//	defer h.Close()
//
// 启动后每个监听器的接入循环和每个客户端的重连循环在同一个 errgroup 中运行。
// 某个接入循环以错误退出时其余循环随之停止，错误由 Wait 返回。
//
// 管道由 Host 创建也由 Host 释放：Close 先关闭所有监听器和客户端，
// 再释放管道持有的适配器。
package host
