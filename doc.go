// Package dds 提供发布/订阅中间件运行时的域生命周期管理
//
// 域（Domain）是运行时的顶级容器：一个域对应一个协议栈实例和
// 一棵参与者/写者实体树。同一域 id 在进程内唯一，显式创建与
// 隐式共享遵循严格的 find-or-create 协议。
//
// # 核心概念
//
//   - Domain: 域，持有协议栈、配置快照与实体树
//   - Participant: 域内参与者，存活期间维持域的生命周期
//   - Writer: 写者，携带批量发送开关
//   - 看门狗: 进程内唯一的线程存活监视器，按引用计数共享
//
// # 快速开始
//
//	import "github.com/dep2p/go-dds"
//
//	// 1. 显式创建域（id 必须是具体值）
//	dom, err := dds.CreateDomain(5, `{"liveliness":{"monitor_threads":true}}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dom.Release()
//
//	// 2. 创建参与者与写者（域不存在时隐式创建）
//	p, err := dds.CreateParticipant(5, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Release()
//
//	w, err := dds.CreateWriter(p)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Release()
//
//	// 3. 全局批量开关，下推到全部存量写者
//	dds.SetWriteBatch(true)
//
// # 生命周期模型
//
// 每次成功的创建/获取都让调用方持有一个所有权引用，经 Release
// 归还；最后一个引用释放触发对象的完整销毁。参与者存活期间对
// 所属域持有引用，因此隐式创建的域在最后一个参与者消失且所有
// 显式持有方释放后自动销毁。
//
// 销毁是同步的：Release 返回时资源已经拆除完毕。正在销毁的域
// 不会被后来的获取方拿到，它们会等销毁完成后重试。
package dds
