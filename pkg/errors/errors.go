package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrDuplicateRecord 唯一键冲突：同一 (学生, 日期, 班次) 已存在考勤记录。
// 并发扫码或清扫与扫码竞争时由唯一约束兜底，调用方可重试。
var ErrDuplicateRecord = errors.New("考勤记录已存在，请刷新后重试")
