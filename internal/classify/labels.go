// SPDX-License-Identifier: MPL-2.0

package classify

// Labels maps each top-level CLC category letter to its Chinese name.
var Labels = map[string]string{
	"A": "马克思主义、列宁主义、毛泽东思想、邓小平理论",
	"B": "哲学、宗教",
	"C": "社会科学总论",
	"D": "政治、法律",
	"E": "军事",
	"F": "经济",
	"G": "文化、科学、教育、体育",
	"H": "语言、文字",
	"I": "文学",
	"J": "艺术",
	"K": "历史、地理",
	"N": "自然科学总论",
	"O": "数理科学和化学",
	"P": "天文学、地球科学",
	"Q": "生物科学",
	"R": "医药、卫生",
	"S": "农业科学",
	"T": "工业技术",
	"U": "交通运输",
	"V": "航空、航天",
	"X": "环境科学、安全科学",
	"Z": "综合性图书",
}

// keywords is a weak-supervision scoring table. A hit adds weight to the
// category; science and technology categories get a small boost because
// their vocabulary is more discriminative.
var keywords = map[string][]string{
	"A": {"马克思", "列宁", "毛泽东", "邓小平", "社会主义理论"},
	"B": {"哲学", "形而上学", "伦理学", "宗教", "佛教", "基督教", "道教", "心灵"},
	"C": {"社会科学", "社会学", "调查研究方法", "统计年鉴", "社会问题", "公共管理"},
	"D": {"政治", "国际关系", "外交", "法学", "刑法", "民法", "行政法", "宪法"},
	"E": {"军事", "战争", "战略", "战术", "国防"},
	"F": {"经济", "金融", "管理学", "会计", "市场营销", "企业战略", "贸易", "宏观经济"},
	"G": {"教育学", "科普读物", "图书馆学", "文化研究", "体育", "博物馆"},
	"H": {"语言学", "语法", "汉语", "英语", "翻译", "词典", "语料库"},
	"I": {"文学", "小说", "诗歌", "散文", "戏剧", "文学史", "文论", "名著"},
	"J": {"艺术", "绘画", "雕塑", "摄影", "音乐", "电影", "戏曲", "设计"},
	"K": {"历史", "通史", "中国史", "世界史", "地理", "考古", "文明史"},
	"N": {"自然科学", "科研方法", "科学思想史"},
	"O": {"数学", "物理", "化学", "拓扑", "量子", "代数", "微积分"},
	"P": {"天文学", "地质", "地理信息", "气象", "地震", "地图学"},
	"Q": {"生物", "遗传", "细胞", "生态", "神经科学", "生物化学"},
	"R": {"医学", "临床", "解剖", "药学", "护理", "公共卫生", "疾病"},
	"S": {"农业", "作物", "畜牧", "林业", "渔业", "土壤"},
	"T": {"计算机", "算法", "软件工程", "人工智能", "深度学习", "网络", "电子", "机械", "材料", "工业", "自动化"},
	"U": {"交通", "铁路", "公路", "航运", "港口", "车辆工程"},
	"V": {"航空", "航天", "航天器", "火箭", "卫星"},
	"X": {"环境", "生态保护", "污染", "安全工程", "职业安全", "应急"},
	"Z": {"百科全书", "年鉴", "论文集", "综合", "工具书"},
}

// sciTechCategories get a 1.2x keyword weight instead of 1.0.
var sciTechCategories = map[string]bool{
	"T": true, "O": true, "Q": true, "R": true, "P": true, "S": true, "X": true,
}

// Label returns the Chinese category name for a CLC code. Only the leading
// letter matters; unknown letters report 未知.
func Label(code string) string {
	if code == "" {
		return "未知"
	}
	head := string([]rune(code)[0])
	if l, ok := Labels[toUpperASCII(head)]; ok {
		return l
	}
	return "未知"
}

// Bucket collapses a CLC code into one of the coarse reader-facing shelves
// used by the catalog UI.
func Bucket(code string) string {
	if code == "" {
		return "未分类"
	}
	switch toUpperASCII(string([]rune(code)[0])) {
	case "T", "O", "Q", "R", "P", "S", "X", "N", "U", "V":
		return "科学技术类"
	case "K":
		return "历史类"
	case "J":
		return "艺术类"
	case "I":
		return "文学类"
	case "H":
		return "语言类"
	case "F":
		return "经济管理类"
	case "G":
		return "教育文化类"
	case "B":
		return "哲学宗教类"
	case "C", "D":
		return "社会政治类"
	case "A", "Z":
		return "综合/知识类"
	default:
		return "未分类"
	}
}

func toUpperASCII(s string) string {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0] - 32)
	}
	return s
}
