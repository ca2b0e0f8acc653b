package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// DefaultAssetManifestPath 默认资源清单路径（嵌入资源）
const DefaultAssetManifestPath = "data/assets.yaml"

// AssetShape 程序化生成的模型形状
type AssetShape string

const (
	AssetShapeDisc   AssetShape = "disc"   // 实心圆盘
	AssetShapeRing   AssetShape = "ring"   // 圆环（传送门）
	AssetShapeSphere AssetShape = "sphere" // 带明暗的球体
)

// AssetSpec 资源清单中的一项
type AssetSpec struct {
	Shape       AssetShape `yaml:"shape"`
	Radius      float64    `yaml:"radius"`      // 世界尺寸半径（米）
	Color       string     `yaml:"color"`       // 基础颜色，可被取色结果覆盖
	TextureSize int        `yaml:"textureSize"` // 光栅化纹理边长（像素）
	RingWidth   float64    `yaml:"ringWidth"`   // 圆环宽度占半径的比例（仅 ring）
}

// AssetManifest 资源 URI → 资源描述
type AssetManifest struct {
	Assets map[string]AssetSpec `yaml:"assets"`
}

// Lookup 按 URI 查找资源描述
func (m *AssetManifest) Lookup(uri string) (AssetSpec, bool) {
	if m == nil {
		return AssetSpec{}, false
	}
	spec, ok := m.Assets[uri]
	return spec, ok
}

// LoadAssetManifest 从 YAML 文件加载资源清单
func LoadAssetManifest(path string) (*AssetManifest, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset manifest: %w", err)
	}
	return ParseAssetManifest(data)
}

// ParseAssetManifest 解析并校验资源清单
func ParseAssetManifest(data []byte) (*AssetManifest, error) {
	var manifest AssetManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse asset manifest YAML: %w", err)
	}
	if err := validateAssetManifest(&manifest); err != nil {
		return nil, fmt.Errorf("invalid asset manifest: %w", err)
	}
	return &manifest, nil
}

func validateAssetManifest(m *AssetManifest) error {
	if len(m.Assets) == 0 {
		return fmt.Errorf("assets cannot be empty")
	}
	for uri, spec := range m.Assets {
		switch spec.Shape {
		case AssetShapeDisc, AssetShapeSphere:
		case AssetShapeRing:
			if spec.RingWidth <= 0 || spec.RingWidth > 1 {
				return fmt.Errorf("asset %s: ringWidth must be in (0, 1], got %v", uri, spec.RingWidth)
			}
		default:
			return fmt.Errorf("asset %s: unknown shape %q", uri, spec.Shape)
		}
		if spec.Radius <= 0 {
			return fmt.Errorf("asset %s: radius must be > 0, got %v", uri, spec.Radius)
		}
		if spec.TextureSize < 8 || spec.TextureSize > 1024 {
			return fmt.Errorf("asset %s: textureSize must be between 8 and 1024, got %d", uri, spec.TextureSize)
		}
		if _, err := colorful.Hex(spec.Color); err != nil {
			return fmt.Errorf("asset %s: color %q: %w", uri, spec.Color, err)
		}
	}
	return nil
}
