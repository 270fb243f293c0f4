package layout

// Typesetter 负责测量文本宽度；由渲染器实现，测试中可用桩实现替代。
// size 与返回的宽度均为逻辑单位。
type Typesetter interface {
	Measure(text string, font Font, size float64) (float64, error)
}
