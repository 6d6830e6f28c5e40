package cfgr

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/cfgtree"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// envKeyFor 将配置 key 转换为环境变量名。
//
// 转换规则：
//   - key 中的 "." 和 "-" 转为 "_"
//   - 转为大写
//   - 添加前缀
//
// 示例 (前缀 "APP_")：
//   - server.addr → APP_SERVER_ADDR
//   - redis.max-len → APP_REDIS_MAX_LEN
func envKeyFor(prefix, key string) string {
	return prefix + strings.ToUpper(envKeyReplacer.Replace(key))
}

// envOverrides 依据 schema 叶子路径生成环境变量覆盖树。
//
// 只匹配 schema 中声明的路径；已设置且非空的环境变量才会写入。
func envOverrides(prefix string, schema *cfgtree.Tree) *cfgtree.Tree {
	out := cfgtree.New()
	for param := range cfgtree.Traverse(schema) {
		envKey := envKeyFor(prefix, param.Path)
		if val := os.Getenv(envKey); val != "" {
			out.Set(param.Path, cfgtree.ParseScalar(val))
			slog.Debug("Loaded env binding", "env", envKey, "path", param.Path)
		}
	}

	return out
}
