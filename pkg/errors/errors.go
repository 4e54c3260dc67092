package errors

import "errors"

// ErrNotAuthenticated 当前操作缺少认证用户上下文
var ErrNotAuthenticated = errors.New("当前操作需要登录")
