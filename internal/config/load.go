package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/urfave/cli/v3"
	yamlv3 "go.yaml.in/yaml/v3"
)

// DefaultEnvPrefix 环境变量前缀。
const DefaultEnvPrefix = "VTPL_"

// options 配置加载选项。
type options struct {
	configPaths []string
	envPrefix   string
	noExpansion bool // 是否禁用配置文件中的 ${VAR} 展开
}

// Option 配置加载选项函数。
type Option func(*options)

// WithConfigPaths 设置配置文件搜索路径，按顺序查找，命中首个文件即停止。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = paths
	}
}

// WithEnvPrefix 设置环境变量前缀，空字符串表示不读取环境变量。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutEnvExpansion 禁用配置文件与搜索路径中的 ${VAR} 展开。
func WithoutEnvExpansion() Option {
	return func(o *options) {
		o.noExpansion = true
	}
}

// DefaultPaths 返回默认配置文件的搜索顺序。
//
// 优先级 (从高到低)：
//  1. ./.vtpl.yaml - 当前目录应用配置
//  2. ~/.vtpl.yaml - 用户主目录配置
//  3. /etc/vtpl/config.yaml - 系统级配置
//  4. config.yaml - 当前目录通用配置
//  5. config/config.yaml - 子目录通用配置
func DefaultPaths() []string {
	paths := []string{"." + AppName + ".yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+AppName+".yaml"))
	}
	paths = append(paths, "/etc/"+AppName+"/config.yaml", "config.yaml", "config/config.yaml")

	return paths
}

// Load 读取配置并按优先级合并：默认值 → 配置文件 → 环境变量 → CLI flags。
//
// cmd 为 nil 时跳过 CLI flags。flag 名由配置 key 把 "." 换成 "-" 得到，
// 例如 search.max-depth → --search-max-depth；只有用户显式设置的 flag 才会覆盖。
func Load(cmd *cli.Command, opts ...Option) (*Config, error) {
	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.configPaths) == 0 {
		o.configPaths = DefaultPaths()
	}

	configMap := structToMap(reflect.ValueOf(DefaultConfig()))
	fields := collectFields(reflect.TypeFor[Config](), "")

	// 配置文件
	for _, path := range o.configPaths {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			continue
		}
		text := string(content)
		if !o.noExpansion {
			text = ExpandEnv(text)
		}

		fileMap, err := parseConfig(text)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		mergeMaps(configMap, fileMap)
		slog.Debug("Loaded config from file", "path", path)

		break
	}

	// 环境变量
	if o.envPrefix != "" {
		for _, f := range fields {
			envKey := o.envPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(f.key))
			if val := os.Getenv(envKey); val != "" {
				setByPath(configMap, f.key, val)
				slog.Debug("Loaded env binding", "env", envKey, "key", f.key)
			}
		}
	}

	// CLI flags
	if cmd != nil {
		for _, f := range fields {
			flag := strings.ReplaceAll(f.key, ".", "-")
			if !cmd.IsSet(flag) {
				continue
			}
			if val, ok := flagValue(cmd, flag, f.typ); ok {
				setByPath(configMap, f.key, val)
			}
		}
	}

	var cfg Config
	if err := decode(configMap, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if !o.noExpansion {
		for i, p := range cfg.Search.Paths {
			cfg.Search.Paths[i] = ExpandEnv(p)
		}
	}

	return &cfg, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 反射辅助
// ═══════════════════════════════════════════════════════════════════════════

var durationType = reflect.TypeFor[time.Duration]()

// field 是一个叶子配置项。
type field struct {
	key string // 以 "." 连接的完整 key，如 search.max-depth
	typ reflect.Type
}

func tagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func isSection(typ reflect.Type) bool {
	return typ.Kind() == reflect.Struct && typ != durationType
}

func collectFields(typ reflect.Type, prefix string) []field {
	var fields []field
	for i := range typ.NumField() {
		sf := typ.Field(i)
		key := tagName(sf)
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if isSection(sf.Type) {
			fields = append(fields, collectFields(sf.Type, key)...)
			continue
		}
		fields = append(fields, field{key: key, typ: sf.Type})
	}

	return fields
}

func structToMap(val reflect.Value) map[string]any {
	typ := val.Type()
	out := make(map[string]any, typ.NumField())
	for i := range typ.NumField() {
		sf := typ.Field(i)
		key := tagName(sf)
		if key == "" {
			continue
		}
		if isSection(sf.Type) {
			out[key] = structToMap(val.Field(i))
			continue
		}
		out[key] = val.Field(i).Interface()
	}

	return out
}

// flagValue 按字段类型读取 CLI flag 的值。
func flagValue(cmd *cli.Command, flag string, typ reflect.Type) (any, bool) {
	if typ == durationType {
		return cmd.Duration(flag), true
	}

	switch typ.Kind() {
	case reflect.String:
		return cmd.String(flag), true
	case reflect.Bool:
		return cmd.Bool(flag), true
	case reflect.Int:
		return cmd.Int(flag), true
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.String {
			return cmd.StringSlice(flag), true
		}
	default:
	}

	return nil, false
}

// ═══════════════════════════════════════════════════════════════════════════
// map 辅助
// ═══════════════════════════════════════════════════════════════════════════

// parseConfig 解析 YAML（JSON 是 YAML 的子集，同样适用）。
func parseConfig(text string) (map[string]any, error) {
	var raw any
	if err := yamlv3.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	normalized := normalizeMapKeys(raw)
	if normalized == nil {
		return map[string]any{}, nil
	}
	configMap, ok := normalized.(map[string]any)
	if !ok {
		return nil, errors.New("config root must be object")
	}

	return configMap, nil
}

func normalizeMapKeys(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		for key, value := range typed {
			typed[key] = normalizeMapKeys(value)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[fmt.Sprintf("%v", key)] = normalizeMapKeys(value)
		}
		return out
	case []any:
		for i := range typed {
			typed[i] = normalizeMapKeys(typed[i])
		}
		return typed
	default:
		return val
	}
}

func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if valueMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, valueMap)
				continue
			}
		}
		dst[key] = value
	}
}

func setByPath(dst map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := dst
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func decode(data map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
