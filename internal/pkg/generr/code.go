package generr

type mErr struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

var (
	ParseParam  = &mErr{400, "参数错误"}
	ServerError = &mErr{500, "服务错误"}
)

var (
	ReadDB   = &mErr{698, "读数据库错误"}
	UpdateDB = &mErr{699, "更新数据库错误"}

	BetBadAddress    = &mErr{701, "地址格式错误"}
	BetBelowMinimum  = &mErr{702, "投注金额低于最低限额"}
	BetClosedSunday  = &mErr{703, "周日不开放投注"}
	BetBadAmount     = &mErr{704, "金额参数错误"}
	BetNoTransaction = &mErr{705, "交易哈希缺失"}
	BetDuplicateTx   = &mErr{706, "交易哈希已存在"}
	BetNoAgent       = &mErr{707, "代理地址缺失"}

	ChainUnavailable = &mErr{901, "链上服务不可用"}
	BalanceNotEnough = &mErr{902, "余额不足"}
)
