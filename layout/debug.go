package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或对比不同模板的几何。
func WriteDebugJSON(d *Drawing, path string) error {
	if d == nil {
		return nil
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化排版结果失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
