package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// table 静态表格输出，列宽取表头与单元格的最大显示宽度
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// render 按 w 的终端能力渲染；非终端（管道、文件）输出不含转义序列
func (t *table) render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	headerStyle := r.NewStyle().Bold(true)
	cellStyle := r.NewStyle()
	mutedStyle := r.NewStyle().Faint(true)

	line := func(style lipgloss.Style, cells []string) string {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			// 末列不补齐，避免行尾空白
			if i == len(widths)-1 {
				parts = append(parts, style.Render(cell))
				continue
			}
			parts = append(parts, style.Width(widths[i]+2).Render(cell))
		}
		return strings.Join(parts, "")
	}

	total := 0
	for _, wd := range widths {
		total += wd + 2
	}

	var sb strings.Builder
	sb.WriteString(line(headerStyle, t.headers) + "\n")
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total-2)) + "\n")
	for _, row := range t.rows {
		sb.WriteString(line(cellStyle, row) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
