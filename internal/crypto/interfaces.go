// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/sealer_mock.go -package=mock

// Sealer шифрует секреты, которые клиент хранит локально (токен сессии).
// Он не знает ничего о сети, базе данных или пользователях.
//
// Схема работы:
//
//	Key    = Argon2id(hashKey, sealSalt)            (один раз, в конструкторе)
//	Sealed = base64(Nonce ‖ AES-GCM(Key, plain))    (Seal)
//	Plain  = AES-GCM-Open(Key, Sealed)              (Open)
type Sealer interface {
	// Seal шифрует plaintext и возвращает base64-строку,
	// пригодную для хранения в текстовой колонке.
	Seal(plaintext []byte) (string, error)

	// Open расшифровывает результат Seal. Возвращает ErrOpenFailed,
	// если ключ не тот или данные повреждены.
	Open(sealed string) ([]byte, error)
}
