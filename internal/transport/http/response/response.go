package response

// Resp 统一信封 {code,msg,data}；data 永不为 null
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// List 分页列表的 data 形状
type List[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// NewList items 为 nil 时输出 []
func NewList[T any](items []T, total int64) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Total: total, Items: items}
}

func Msg(code int) string {
	if m, ok := CodeMsgMap[code]; ok {
		return m
	}
	return CodeMsgMap[CodeServerError]
}

func OK(data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: CodeOK, Msg: Msg(CodeOK), Data: data}
}

// Error msg 为空时用默认文案
func Error(code int, msg string) Resp {
	if msg == "" {
		msg = Msg(code)
	}
	return Resp{Code: code, Msg: msg, Data: struct{}{}}
}
