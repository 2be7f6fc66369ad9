package tencent

import "slices"

// DefaultRegion 华北地区(北京)
const DefaultRegion = "ap-beijing"

// Regions 机器翻译支持的地域，金融区需要单独申请
var Regions = []string{
	"ap-bangkok",       // 亚太东南(曼谷)
	"ap-beijing",       // 华北地区(北京)
	"ap-chengdu",       // 西南地区(成都)
	"ap-chongqing",     // 西南地区(重庆)
	"ap-guangzhou",     // 华南地区(广州)
	"ap-hongkong",      // 港澳台地区(中国香港)
	"ap-mumbai",        // 亚太南部(孟买)
	"ap-seoul",         // 亚太东北(首尔)
	"ap-shanghai",      // 华东地区(上海)
	"ap-shanghai-fsi",  // 华东地区(上海金融)
	"ap-shenzhen-fsi",  // 华南地区(深圳金融)
	"ap-singapore",     // 亚太东南(新加坡)
	"eu-frankfurt",     // 欧洲地区(法兰克福)
	"na-ashburn",       // 美国东部(弗吉尼亚)
	"na-siliconvalley", // 美国西部(硅谷)
	"na-toronto",       // 北美地区(多伦多)
}

// ValidRegion 地域是否受支持
func ValidRegion(region string) bool {
	return slices.Contains(Regions, region)
}
