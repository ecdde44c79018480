// Package menu holds the fixed dish catalog.
package menu

// Category groups dishes for display.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Dish is one menu entry with its undiscounted price.
type Dish struct {
	ID          int    `json:"id"`
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

var categories = []Category{
	{ID: "pork", Name: "猪肉类", Icon: "🐷"},
	{ID: "chicken", Name: "鸡肉类", Icon: "🐔"},
	{ID: "beef", Name: "牛肉类", Icon: "🐄"},
	{ID: "seafood", Name: "海鲜类", Icon: "🦐"},
	{ID: "vegetable", Name: "素食类", Icon: "🥬"},
	{ID: "drink", Name: "饮品类", Icon: "🥤"},
}

var dishes = []Dish{
	{ID: 1, CategoryID: "pork", Name: "红烧肉", Price: 48, Image: "/images/hongshaorou.jpg", Description: "肥而不腻，入口即化"},
	{ID: 2, CategoryID: "pork", Name: "糖醋排骨", Price: 58, Image: "/images/tangcupaigu.jpg", Description: "酸甜可口，老少皆宜"},
	{ID: 3, CategoryID: "pork", Name: "回锅肉", Price: 38, Image: "/images/huiguorou.jpg", Description: "川味经典，香辣下饭"},
	{ID: 4, CategoryID: "pork", Name: "东坡肉", Price: 68, Image: "/images/dongporou.jpg", Description: "肥而不腻，软糯香甜"},
	{ID: 5, CategoryID: "chicken", Name: "宫保鸡丁", Price: 42, Image: "/images/gongbaojiding.jpg", Description: "麻辣鲜香，口感丰富"},
	{ID: 6, CategoryID: "chicken", Name: "辣子鸡", Price: 48, Image: "/images/laziji.jpg", Description: "麻辣鲜香，外酥里嫩"},
	{ID: 7, CategoryID: "chicken", Name: "口水鸡", Price: 38, Image: "/images/koushuiji.jpg", Description: "麻辣鲜香，开胃下饭"},
	{ID: 8, CategoryID: "chicken", Name: "黄焖鸡", Price: 45, Image: "/images/huangmenji.jpg", Description: "鲜嫩多汁，营养丰富"},
	{ID: 9, CategoryID: "beef", Name: "水煮牛肉", Price: 68, Image: "/images/shuizhuniurou.jpg", Description: "麻辣鲜香，肉质鲜嫩"},
	{ID: 10, CategoryID: "beef", Name: "红烧牛腩", Price: 78, Image: "/images/hongshaoniunan.jpg", Description: "软烂入味，汤汁浓郁"},
	{ID: 11, CategoryID: "beef", Name: "黑椒牛柳", Price: 88, Image: "/images/heijiaoliuliu.jpg", Description: "嫩滑多汁，黑椒香浓"},
	{ID: 12, CategoryID: "beef", Name: "番茄牛腩", Price: 72, Image: "/images/fanqieniunan.jpg", Description: "酸甜开胃，营养丰富"},
	{ID: 13, CategoryID: "seafood", Name: "清蒸鲈鱼", Price: 98, Image: "/images/qingzhengluyu.jpg", Description: "鲜嫩无比，原汁原味"},
	{ID: 14, CategoryID: "seafood", Name: "蒜蓉粉丝蒸扇贝", Price: 68, Image: "/images/shanbei.jpg", Description: "蒜香扑鼻，鲜美可口"},
	{ID: 15, CategoryID: "seafood", Name: "白灼虾", Price: 88, Image: "/images/baizhuoxia.jpg", Description: "鲜甜爽脆，原汁原味"},
	{ID: 16, CategoryID: "seafood", Name: "香辣蟹", Price: 128, Image: "/images/xianglaxie.jpg", Description: "香辣诱人，肉质饱满"},
	{ID: 17, CategoryID: "vegetable", Name: "麻婆豆腐", Price: 28, Image: "/images/mapodoufu.jpg", Description: "麻辣鲜香，豆腐嫩滑"},
	{ID: 18, CategoryID: "vegetable", Name: "地三鲜", Price: 32, Image: "/images/disanxian.jpg", Description: "东北名菜，营养丰富"},
	{ID: 19, CategoryID: "vegetable", Name: "蒜蓉西兰花", Price: 26, Image: "/images/xilanhua.jpg", Description: "清爽健康，蒜香扑鼻"},
	{ID: 20, CategoryID: "vegetable", Name: "干煸四季豆", Price: 28, Image: "/images/sijidou.jpg", Description: "香脆可口，下饭神器"},
	{ID: 21, CategoryID: "drink", Name: "鲜榨橙汁", Price: 18, Image: "/images/chengzhi.jpg", Description: "新鲜现榨，维C满满"},
	{ID: 22, CategoryID: "drink", Name: "冰柠檬茶", Price: 15, Image: "/images/ningmengcha.jpg", Description: "酸甜解渴，清新爽口"},
	{ID: 23, CategoryID: "drink", Name: "奶茶", Price: 20, Image: "/images/naicha.jpg", Description: "丝滑香醇，甜度适中"},
	{ID: 24, CategoryID: "drink", Name: "可乐", Price: 10, Image: "/images/kele.jpg", Description: "经典碳酸饮料"},
}

// discountCandidateCount caps the pool of dishes the daily discount draw
// selects from; drinks are never discounted.
const discountCandidateCount = 20

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Dishes returns the full catalog in display order.
func Dishes() []Dish {
	out := make([]Dish, len(dishes))
	copy(out, dishes)
	return out
}

// DiscountCandidates returns the dishes eligible for daily discounts.
func DiscountCandidates() []Dish {
	out := make([]Dish, discountCandidateCount)
	copy(out, dishes[:discountCandidateCount])
	return out
}

// DishByID looks a dish up by id.
func DishByID(id int) (Dish, bool) {
	for _, d := range dishes {
		if d.ID == id {
			return d, true
		}
	}
	return Dish{}, false
}
