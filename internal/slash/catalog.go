// Package slash implements the "/" block-type picker: a fixed catalog,
// query filtering, keyboard navigation and a persisted recency list.
package slash

import "academy/internal/domain"

// Command is one selectable block type.
type Command struct {
	ID          domain.BlockType `json:"id"`
	Label       string           `json:"label"`
	LabelAr     string           `json:"labelAr"`
	Description string           `json:"description"`
}

// Catalog lists every block type an editor can insert, in menu order.
var Catalog = []Command{
	{domain.BlockTypeText, "Text", "نص", "Plain paragraph"},
	{domain.BlockTypeH1, "Heading 1", "عنوان 1", "Large section heading"},
	{domain.BlockTypeH2, "Heading 2", "عنوان 2", "Medium section heading"},
	{domain.BlockTypeH3, "Heading 3", "عنوان 3", "Small section heading"},
	{domain.BlockTypeBullet, "Bulleted list", "قائمة نقطية", "Simple bulleted item"},
	{domain.BlockTypeNumbered, "Numbered list", "قائمة مرقمة", "Item with a running number"},
	{domain.BlockTypeTodo, "To-do", "مهمة", "Checkbox item"},
	{domain.BlockTypeToggle, "Toggle", "قسم قابل للطي", "Collapsible details"},
	{domain.BlockTypeQuote, "Quote", "اقتباس", "Quoted passage"},
	{domain.BlockTypeCode, "Code", "كود", "Code snippet with syntax language"},
	{domain.BlockTypeTable, "Table", "جدول", "Markdown pipe table"},
	{domain.BlockTypeImage, "Image", "صورة", "Embed an image by URL"},
	{domain.BlockTypeYouTube, "YouTube", "يوتيوب", "Embed a YouTube video"},
	{domain.BlockTypeQuiz, "Quiz", "اختبار", "Multiple choice or capture-the-flag challenge"},
	{domain.BlockTypeTip, "Tip", "نصيحة", "Highlighted tip callout"},
	{domain.BlockTypeInfo, "Info", "معلومة", "Informational callout"},
	{domain.BlockTypeWarning, "Warning", "تحذير", "Warning callout"},
	{domain.BlockTypeDivider, "Divider", "فاصل", "Horizontal rule"},
	{domain.BlockTypePaste, "Paste markdown", "لصق ماركداون", "Convert pasted markdown into blocks"},
}

// Lookup finds a catalog entry by block type id.
func Lookup(id domain.BlockType) (Command, bool) {
	for _, c := range Catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}
