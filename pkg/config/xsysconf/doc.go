// Package xsysconf 管理具名、版本化的配置系统（core、logger、alternate_dirs、developer_mode）。
//
// 每个配置系统由一个 [Handle] 表示：持有规格（xspec）、INI 文档（xini）、
// 目标目录与文件路径，以及若干簿记标志（已加载、脏、自动保存、变更后重载、文件已修改）。
//
// # 读取
//
// [Handle.Get] 按以下优先级解析键：
//
//  1. 实例级覆盖值（[Handle.Override]，不持久化），原样返回
//  2. 文档活动分区中的值（含从 DEFAULT 继承的键），原始字符串
//  3. 规格默认值的字符串形式
//  4. 以上都没有时返回 xcfgerr.ErrAttributeNotFound
//
// 规格中声明了类型的键经 xcoerce 转换后返回；未声明的值原样返回。
// 回落到规格默认值前会记录一条警告，区分三种情况：文件中没有活动分区、
// 文件中缺少该键、文件不存在。
//
// 活动分区：alternate_dirs 为 CACHE，其他系统为 USER，不存在时按需创建。
//
// # 写入
//
// [Handle.Set] 只接受规格中声明的键。写入值的字符串形式，置脏标志；
// 开启自动保存（默认）时立即保存并从文件重新加载，调用返回时磁盘与内存一致。
// 簿记标志只通过显式 setter（SetAutoSave、SetReloadOnChange 等）修改，从不持久化。
//
// # 持久化
//
// [Handle.Save] 先在需要时备份，再以"临时文件 + fsync + rename"原子替换目标文件。
// [Handle.Load] 从文件重建文档并调用 [Handle.SyncWithSpec]：规格的键集合与文件 DEFAULT
// 不一致时重新生成 DEFAULT 并保存，已存在键的用户值保留，规格删除的键从活动分区剔除。
//
// # 并发
//
// Handle 不加锁，同一个 Handle 只能由一个 goroutine 使用。
// [Registry] 对每个配置系统最多持有一个 Handle，首次创建由 singleflight 串行化，
// 之后的查找是只读的 map 命中。
package xsysconf
