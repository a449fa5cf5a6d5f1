// 集成测试：验证真实 LLM 能把自然语言查询映射到已注册的函数。
//
// 运行方式（需要真实 API Key）：
//
//	go test ./agents/ai_functions/ -run Integration -v -timeout 120s
//
// 默认跳过（CI 环境无 API Key 时自动跳过）。
package main

import (
	"context"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickdu2009/ai-functions/pkg/config"
	"github.com/nickdu2009/ai-functions/pkg/dispatch"
	"github.com/nickdu2009/ai-functions/pkg/tools"
)

// newRealDispatcher 创建连接真实 LLM 的 Dispatcher，无 API Key 时跳过。
func newRealDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	_ = godotenv.Load("../../.env")
	cfg, err := config.Load("")
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	client, err := newLLMClient(cfg.LLM())
	require.NoError(t, err)
	registry := tools.Discover(zerolog.Nop(), cfg.NamingPolicy(), builtinPlugins()...)
	return dispatch.New(client, registry, zerolog.Nop())
}

func dispatchWithTimeout(t *testing.T, d *dispatch.Dispatcher, query string) dispatch.Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	res := d.Dispatch(ctx, query)
	t.Logf("%s => %s", query, res)
	return res
}

func TestIntegration_Lowercase(t *testing.T) {
	d := newRealDispatcher(t)

	res := dispatchWithTimeout(t, d, "Can you lowercase the string 'HELLO WORLD'?")

	require.Equal(t, dispatch.Success, res.Kind)
	assert.Equal(t, "string_lowercase", res.Key)
	assert.Equal(t, "hello world", res.Value)
}

func TestIntegration_Addition(t *testing.T) {
	d := newRealDispatcher(t)

	res := dispatchWithTimeout(t, d, "What is 10 plus 2?")

	require.Equal(t, dispatch.Success, res.Kind)
	assert.Equal(t, 12.0, res.Value)
}

func TestIntegration_Power(t *testing.T) {
	d := newRealDispatcher(t)

	res := dispatchWithTimeout(t, d, "Calculate 5 to the power of 3.")

	require.Equal(t, dispatch.Success, res.Kind)
	assert.Equal(t, "power", res.Key)
	assert.Equal(t, 125.0, res.Value)
}
