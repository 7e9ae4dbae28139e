package utils

import (
	"crypto/rand"
)

// 토큰 코드 문자셋: 대문자 + 숫자
const tokenCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenCodeLength 식사 토큰 코드 길이
const TokenCodeLength = 8

// GenerateTokenCode 8자리 불투명 토큰 코드 생성
func GenerateTokenCode() (string, error) {
	buf := make([]byte, TokenCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tokenCodeCharset[int(b)%len(tokenCodeCharset)]
	}
	return string(buf), nil
}
