package repository

import "errors"

// 対象が見つからないを統一
var ErrNotFound = errors.New("not found")
