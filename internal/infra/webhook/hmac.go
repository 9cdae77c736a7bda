package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"app/internal/usecase"
)

// HMAC-SHA256で通知の送信元を確認する。
// 署名はリクエストボディ全体に対して計算し、hexで受け取る
type hmacVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) usecase.NotificationVerifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(body []byte, signature string) bool {
	//secret未設定なら検証を無効化する（開発用）
	if len(v.secret) == 0 {
		return true
	}

	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), sig)
}
