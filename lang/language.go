package lang

import (
	"fmt"
	"sync"
)

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleChinese Locale = "zh"
)

type TabsStrings struct {
	Search  string
	Library string
}

type SearchStrings struct {
	Placeholder        string
	Prompt             string
	InputHint          string
	FoundTemplate      string
	Searching          string
	NoResults          string
	ErrorTemplate      string
	GenericError       string
	UnknownTitle       string
	UnknownAuthor      string
	SavedTemplate      string
	SaveFailedTemplate string
	Help               string
}

type DetailsStrings struct {
	Loading        string
	NoDescription  string
	FailedTemplate string
	Help           string
}

type LibraryStrings struct {
	FilterPrompt         string
	FilterPlaceholder    string
	Empty                string
	NoMatches            string
	CountTemplate        string
	RemovedTemplate      string
	UpdatedTemplate      string
	ActionFailedTemplate string
	Help                 string
}

type EditStrings struct {
	Title       string
	TitleLabel  string
	AuthorLabel string
	YearLabel   string
	Hint        string
	EmptyTitle  string
}

type ConfirmStrings struct {
	RemovePromptTemplate string
	RemoveConfirm        string
	Cancel               string
}

type PickerStrings struct {
	PhotoTitle     string
	ShareTitle     string
	Empty          string
	StatusSingular string
	StatusPlural   string
	FilterPrompt   string
}

type ShareStrings struct {
	Intro                   string
	TitleLabel              string
	AuthorLabel             string
	YearLabel               string
	Unknown                 string
	SubjectTemplate         string
	CopiedTemplate          string
	ClipboardFailedTemplate string
}

type PhotoStrings struct {
	LinkedTemplate       string
	ImportFailedTemplate string
}

type DialogStrings struct {
	SelectImagePrompt string
	Unavailable       string
}

type SettingsStrings struct {
	LanguageNames    map[Locale]string
	LanguageChanged  string
	SaveConfigFailed string
}

type CommonStrings struct {
	UnknownState string
}

type LayoutStrings struct {
	UnderlineLength int
}

type Strings struct {
	Tabs     TabsStrings
	Search   SearchStrings
	Details  DetailsStrings
	Library  LibraryStrings
	Edit     EditStrings
	Confirm  ConfirmStrings
	Picker   PickerStrings
	Share    ShareStrings
	Photo    PhotoStrings
	Dialog   DialogStrings
	Settings SettingsStrings
	Common   CommonStrings
	Layout   LayoutStrings
}

var (
	mu sync.RWMutex

	translations = map[Locale]*Strings{
		LocaleChinese: {
			Tabs: TabsStrings{
				Search:  "搜索",
				Library: "我的书库",
			},
			Search: SearchStrings{
				Placeholder:        "输入书名或作者..",
				Prompt:             "搜索：",
				InputHint:          "输入即搜索，按 Enter 收藏选中的书",
				FoundTemplate:      "找到%d本书籍",
				Searching:          "搜索中…",
				NoResults:          "没有结果",
				ErrorTemplate:      "搜索失败：%s",
				GenericError:       "出了点问题",
				UnknownTitle:       "未知书名",
				UnknownAuthor:      "未知作者",
				SavedTemplate:      "「%s」已收藏到书库",
				SaveFailedTemplate: "无法收藏：%v",
				Help:               "enter 收藏 · ctrl+d 详情 · ctrl+r 重试 · tab 切换",
			},
			Details: DetailsStrings{
				Loading:        "正在加载简介…",
				NoDescription:  "暂无简介。",
				FailedTemplate: "无法加载简介：%v",
				Help:           "esc 返回",
			},
			Library: LibraryStrings{
				FilterPrompt:         "筛选：",
				FilterPlaceholder:    "书名或作者..",
				Empty:                "书库中没有书。",
				NoMatches:            "没有符合条件的书。",
				CountTemplate:        "共%d本",
				RemovedTemplate:      "已删除「%s」",
				UpdatedTemplate:      "已更新「%s」",
				ActionFailedTemplate: "书库操作失败：%v",
				Help:                 "/ 筛选 · e 编辑 · d 删除 · s 分享 · S 选择分享 · p 照片 · P 照片后选书 · ctrl+l 语言",
			},
			Edit: EditStrings{
				Title:       "编辑书籍",
				TitleLabel:  "书名",
				AuthorLabel: "作者",
				YearLabel:   "年份",
				Hint:        "tab 下一项 · enter 保存 · esc 取消",
				EmptyTitle:  "书名不能为空",
			},
			Confirm: ConfirmStrings{
				RemovePromptTemplate: "从书库删除「%s」？",
				RemoveConfirm:        "删除",
				Cancel:               "取消",
			},
			Picker: PickerStrings{
				PhotoTitle:     "选择要关联照片的书",
				ShareTitle:     "选择要分享的书",
				Empty:          "书库中没有书。",
				StatusSingular: "本书",
				StatusPlural:   "本书",
				FilterPrompt:   "筛选：",
			},
			Share: ShareStrings{
				Intro:                   "我想向你推荐一本书：",
				TitleLabel:              "书名",
				AuthorLabel:             "作者",
				YearLabel:               "年份",
				Unknown:                 "未知",
				SubjectTemplate:         "好书推荐：%s",
				CopiedTemplate:          "已复制「%s」的推荐到剪贴板",
				ClipboardFailedTemplate: "剪贴板不可用：%v",
			},
			Photo: PhotoStrings{
				LinkedTemplate:       "已为「%s」关联照片",
				ImportFailedTemplate: "无法导入照片：%v",
			},
			Dialog: DialogStrings{
				SelectImagePrompt: "选择一张封面照片",
				Unavailable:       "系统不支持文件选择对话框。",
			},
			Settings: SettingsStrings{
				LanguageNames: map[Locale]string{
					LocaleChinese: "中文",
					LocaleEnglish: "英文",
				},
				LanguageChanged:  "语言：%s",
				SaveConfigFailed: "无法保存设置: %v",
			},
			Common: CommonStrings{
				UnknownState: "未知状态",
			},
			Layout: LayoutStrings{
				UnderlineLength: 48,
			},
		},
		LocaleEnglish: {
			Tabs: TabsStrings{
				Search:  "Search",
				Library: "My Library",
			},
			Search: SearchStrings{
				Placeholder:        "Search by title or author..",
				Prompt:             "Search: ",
				InputHint:          "Type to search, press Enter to save the selected book",
				FoundTemplate:      "Found %d books",
				Searching:          "Searching…",
				NoResults:          "No results",
				ErrorTemplate:      "Search failed: %s",
				GenericError:       "Something went wrong",
				UnknownTitle:       "Unknown title",
				UnknownAuthor:      "Unknown author",
				SavedTemplate:      "%s has been saved to library",
				SaveFailedTemplate: "Could not save book: %v",
				Help:               "enter save · ctrl+d details · ctrl+r retry · tab switch",
			},
			Details: DetailsStrings{
				Loading:        "Loading description…",
				NoDescription:  "No description available.",
				FailedTemplate: "Could not load description: %v",
				Help:           "esc back",
			},
			Library: LibraryStrings{
				FilterPrompt:         "Filter: ",
				FilterPlaceholder:    "title or author..",
				Empty:                "No books in library.",
				NoMatches:            "No books match the filter.",
				CountTemplate:        "%d books",
				RemovedTemplate:      "Removed %s",
				UpdatedTemplate:      "Updated %s",
				ActionFailedTemplate: "Library operation failed: %v",
				Help:                 "/ filter · e edit · d delete · s share · S pick & share · p photo · P photo, then pick · ctrl+l language",
			},
			Edit: EditStrings{
				Title:       "Edit book",
				TitleLabel:  "Title",
				AuthorLabel: "Author",
				YearLabel:   "Year",
				Hint:        "tab next field · enter save · esc cancel",
				EmptyTitle:  "Title cannot be empty",
			},
			Confirm: ConfirmStrings{
				RemovePromptTemplate: "Remove %s from library?",
				RemoveConfirm:        "Remove",
				Cancel:               "Cancel",
			},
			Picker: PickerStrings{
				PhotoTitle:     "Select a book to link photo",
				ShareTitle:     "Select a book to share",
				Empty:          "No books in library.",
				StatusSingular: "book",
				StatusPlural:   "books",
				FilterPrompt:   "Filter: ",
			},
			Share: ShareStrings{
				Intro:                   "I'd like to recommend a book to you:",
				TitleLabel:              "Title",
				AuthorLabel:             "Author",
				YearLabel:               "Year",
				Unknown:                 "Unknown",
				SubjectTemplate:         "Book Recommendation: %s",
				CopiedTemplate:          "Copied recommendation for %s to clipboard",
				ClipboardFailedTemplate: "Clipboard unavailable: %v",
			},
			Photo: PhotoStrings{
				LinkedTemplate:       "Linked photo to %s",
				ImportFailedTemplate: "Could not import photo: %v",
			},
			Dialog: DialogStrings{
				SelectImagePrompt: "Select a cover photo",
				Unavailable:       "No file dialog is available on this system.",
			},
			Settings: SettingsStrings{
				LanguageNames: map[Locale]string{
					LocaleChinese: "Chinese",
					LocaleEnglish: "English",
				},
				LanguageChanged:  "Language: %s",
				SaveConfigFailed: "Failed to save settings: %v",
			},
			Common: CommonStrings{
				UnknownState: "Unknown state",
			},
			Layout: LayoutStrings{
				UnderlineLength: 60,
			},
		},
	}

	availableLocales = []Locale{
		LocaleEnglish,
		LocaleChinese,
	}

	currentLocale = LocaleEnglish
	current       = translations[currentLocale]
)

func AvailableLocales() []Locale {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Locale, len(availableLocales))
	copy(out, availableLocales)
	return out
}

func SetLocale(loc Locale) bool {
	mu.Lock()
	defer mu.Unlock()
	strings, ok := translations[loc]
	if !ok {
		return false
	}
	currentLocale = loc
	current = strings
	return true
}

func CurrentLocale() Locale {
	mu.RLock()
	defer mu.RUnlock()
	return currentLocale
}

// NextLocale returns the locale after the current one, wrapping around.
func NextLocale() Locale {
	locales := AvailableLocales()
	cur := CurrentLocale()
	for i, loc := range locales {
		if loc == cur {
			return locales[(i+1)%len(locales)]
		}
	}
	return locales[0]
}

func Active() *Strings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func LanguageName(loc Locale) string {
	s := Active()
	if name, ok := s.Settings.LanguageNames[loc]; ok {
		return name
	}
	return string(loc)
}

func SearchFound(count int) string {
	s := Active()
	return fmt.Sprintf(s.Search.FoundTemplate, count)
}

// SearchError renders a lookup failure. An empty message falls back to the
// generic text.
func SearchError(message string) string {
	s := Active()
	if message == "" {
		message = s.Search.GenericError
	}
	return fmt.Sprintf(s.Search.ErrorTemplate, message)
}

func BookSaved(title string) string {
	s := Active()
	return fmt.Sprintf(s.Search.SavedTemplate, title)
}

func SaveFailed(err error) string {
	s := Active()
	return fmt.Sprintf(s.Search.SaveFailedTemplate, err)
}

func DetailsFailed(err error) string {
	s := Active()
	return fmt.Sprintf(s.Details.FailedTemplate, err)
}

func LibraryCount(count int) string {
	s := Active()
	return fmt.Sprintf(s.Library.CountTemplate, count)
}

func BookRemoved(title string) string {
	s := Active()
	return fmt.Sprintf(s.Library.RemovedTemplate, title)
}

func BookUpdated(title string) string {
	s := Active()
	return fmt.Sprintf(s.Library.UpdatedTemplate, title)
}

func LibraryFailed(err error) string {
	s := Active()
	return fmt.Sprintf(s.Library.ActionFailedTemplate, err)
}

func RemovePrompt(title string) string {
	s := Active()
	return fmt.Sprintf(s.Confirm.RemovePromptTemplate, title)
}

func ShareSubject(title string) string {
	s := Active()
	return fmt.Sprintf(s.Share.SubjectTemplate, title)
}

func ShareCopied(title string) string {
	s := Active()
	return fmt.Sprintf(s.Share.CopiedTemplate, title)
}

func ClipboardFailed(err error) string {
	s := Active()
	return fmt.Sprintf(s.Share.ClipboardFailedTemplate, err)
}

func PhotoLinked(title string) string {
	s := Active()
	return fmt.Sprintf(s.Photo.LinkedTemplate, title)
}

func PhotoImportFailed(err error) string {
	s := Active()
	return fmt.Sprintf(s.Photo.ImportFailedTemplate, err)
}

func LanguageChanged(loc Locale) string {
	s := Active()
	return fmt.Sprintf(s.Settings.LanguageChanged, LanguageName(loc))
}

func SaveConfigFailed(err error) string {
	s := Active()
	return fmt.Sprintf(s.Settings.SaveConfigFailed, err)
}
