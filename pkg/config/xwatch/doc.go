// Package xwatch 等待外部编辑器修改配置文件，或等待用户取消。
//
// [WaitForChange] 先记录文件 mtime 基线，调用 [Opener] 打开文件，然后并发运行两个活动：
//
//   - 轮询：按间隔重新读取 mtime，与基线不同即视为已修改
//   - 取消：等待 [Trigger] 触发（回车、信号或测试注入的 channel）
//
// 先发生者胜出，另一方通过共享 context 停止，两者都退出后才返回。
// 父 context 被取消时返回 ctx.Err()。
//
// 可选增强：
//
//   - [WithNotify]：fsnotify 事件提前唤醒轮询，不必等到下一个间隔
//   - [WithFingerprint]：额外比较 xxhash 内容指纹，识别 mtime 未变的改写
//
// 轮询期间文件暂时消失（编辑器先删后写）不算修改，继续等待。
package xwatch
