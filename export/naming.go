package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// BlankEntryName 是空白科目名片在压缩包中的文件名。
const BlankEntryName = "Blank"

var unsafeName = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "",
)

// sanitize 统一为 NFC 并替换路径分隔符等不能出现在文件名中的字符。
func sanitize(s string) string {
	return unsafeName.Replace(norm.NFC.String(strings.TrimSpace(s)))
}

// entryNamer 为压缩包条目分配不重复的文件名：
// 重名时从 1 开始向上寻找第一个未使用的 _N 后缀。
type entryNamer struct {
	used map[string]bool
}

func newEntryNamer() *entryNamer { return &entryNamer{used: map[string]bool{}} }

func (n *entryNamer) next(subject, ext string) string {
	base := sanitize(subject)
	if base == "" {
		base = BlankEntryName
	}
	name := base
	for i := 1; n.used[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	n.used[name] = true
	return name + ext
}
