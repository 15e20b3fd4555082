package errors

import "errors"

// 跨层共享的错误哨兵。业务模块自己的错误定义在各自的 service 包中，
// 这里只放 Repository 层与 Service 层都需要识别的通用失败类型。

// ErrConflict 并发冲突：资源已被其他请求占用（如同窗口抢订同一张桌）
var ErrConflict = errors.New("资源冲突，请求的资源已被占用")
