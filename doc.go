// Package channels 面向连接的网络中间件
//
// 一个 Host 按配置运行任意数量的监听器（TCP、UDP、WebSocket）和自动重连客户端。
// 每个连接对应一个通道，通道收到的字节依次经过输入适配器和处理器，
// 写出的对象依次经过输出适配器后到达传输层。管道阶段由具名的
// ChannelProfile 声明，监听器和客户端按名称引用。
//
// # 快速开始
//
//	profile := &middleware.ChannelProfile{
//	    Name: "echo",
//	    Handlers: []middleware.Stage{
//	        middleware.HandlerFunc("echo", func(ctx interfaces.PipelineContext, p []byte) error {
//	            ctx.Output().Push(p)
//	            return nil
//	        }),
//	    },
//	}
//
//	h, err := channels.New(
//	    channels.WithProfile(profile),
//	    channels.WithListener(config.ListenerConfig{
//	        Name: "echo", Transport: "tcp", Port: 9000, Profile: "echo",
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := h.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
// # 组件
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  channels.Host        fx 应用：配置、监听器注册表、指标、Host  │
//	├──────────────────────────────────────────────────────────────┤
//	│  transport/tcp|udp|websocket   监听器、客户端、接收循环        │
//	│  reconnect                     客户端重连状态机                │
//	├──────────────────────────────────────────────────────────────┤
//	│  channel    通道实体：接收、写出、关闭、服务、事件             │
//	│  pipeline   输入/输出管道执行器                                │
//	│  idle       空闲检测服务                                       │
//	├──────────────────────────────────────────────────────────────┤
//	│  pkg/middleware   阶段分派规则、ChannelProfile                 │
//	│  pkg/buffer       可读/可写字节缓冲区                          │
//	└──────────────────────────────────────────────────────────────┘
//
// 通道事件（创建、关闭、收发数据、自定义事件）同步分发给 WithEventListener
// 注册的监听器，启用指标时还会导出 Prometheus 计数器。
package channels
