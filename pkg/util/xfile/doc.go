// Package xfile 提供配置文件读写用到的文件系统工具。
//
// # 路径校验
//
//   - SanitizePath: 规范化文件路径，拒绝空路径、空字节、目录路径和相对穿越
//   - SafeJoin: 把不可信的相对名拼到 base 目录下，结果保证不逃出 base
//   - ExpandHome: 展开开头的 "~"
//
// 穿越检测按路径段匹配，"..config" 这类以点开头的普通文件名不受影响：
//
//	SafeJoin("/etc/xfire/backups", "core.bak")       // -> "/etc/xfire/backups/core.bak"
//	SafeJoin("/etc/xfire/backups", "../config.ini")  // -> ErrPathTraversal
//
// # 文件操作
//
//   - CopyFile: 逐字节复制，保留源文件权限
//   - WriteFileAtomic: 同目录临时文件 + fsync + rename，rename 对瞬时错误重试
//   - Exists / IsDir: 存在性查询
//
// WriteFileAtomic 保证读者只会看到旧内容或新内容，不会看到写了一半的文件。
//
// # 错误处理
//
// 预定义错误支持 [errors.Is]：
//
//	if _, err := xfile.SafeJoin(dir, name); errors.Is(err, xfile.ErrPathTraversal) {
//	    // ...
//	}
package xfile
