// Package xcfgerr 定义配置系统的结构化错误分类。
//
// 每个错误携带三类信息：
//   - Kind：错误类别（InvalidConfigSystem、FileNotFound 等），用于程序判断
//   - Msg：面向人的说明
//   - File/Line：错误产生位置（provenance），供展示层（如 xfirectl 的错误面板）使用
//
// 展示格式由调用方负责，本包只产出数据。
//
// # 判断错误类别
//
// 每个 Kind 都有对应的哨兵错误，支持 [errors.Is]：
//
//	_, err := handle.Backup(xsysconf.BackupName("daily"))
//	if errors.Is(err, xcfgerr.ErrFileAlreadyExists) {
//	    // 换个名字或启用 overwrite
//	}
//
// 需要完整字段时使用 [errors.As]：
//
//	var ce *xcfgerr.Error
//	if errors.As(err, &ce) {
//	    fmt.Println(ce.Kind, ce.File, ce.Line)
//	}
package xcfgerr
