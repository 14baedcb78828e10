package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrInvalidVoteType 表示投票档位不在允许的枚举范围内
var ErrInvalidVoteType = errors.New("vote: invalid vote type")

// ErrMissingSession 表示投票请求缺少会话标识头
var ErrMissingSession = errors.New("vote: missing session id")
