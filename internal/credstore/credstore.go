// Package credstore 持久化每个钱包的 API 凭证。
// 基于 Badger 的 KV 存储，key 为小写钱包地址，Set 即 upsert：
// 重新绑定永远覆盖旧行，不报错也不产生重复。
// 凭证记录只有 Credential Manager 可写，其余组件只读。
package credstore

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/types"
)

// Record 凭证行
type Record struct {
	WalletAddress string    `json:"walletAddress"`
	ApiKey        string    `json:"apiKey"`
	ApiSecret     string    `json:"apiSecret"`
	ApiPassphrase string    `json:"apiPassphrase"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Creds 转换为客户端凭证
func (r *Record) Creds() *types.ApiKeyCreds {
	return &types.ApiKeyCreds{
		Key:        r.ApiKey,
		Secret:     r.ApiSecret,
		Passphrase: r.ApiPassphrase,
	}
}

// Store 凭证存储
// 加密由 Badger 选项提供（value log + key registry），非本包职责
type Store struct {
	db *badger.DB
}

// OpenOptions 打开选项
type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 32 字节；nil 时不加密（不建议生产使用）
	InMemory      bool   // 测试用
}

// Open 打开凭证存储
func Open(opts OpenOptions) (*Store, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("credstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithInMemory(opts.InMemory)
	if len(opts.EncryptionKey) > 0 {
		// Badger 加密负载要求 index cache
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close 关闭存储
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// normalizeKey 地址统一小写作为主键
func normalizeKey(address string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(address)))
}

// Put 写入凭证（upsert 语义）
func (s *Store) Put(address string, creds *types.ApiKeyCreds) error {
	if s == nil || s.db == nil {
		return errors.New("credstore: not opened")
	}
	key := normalizeKey(address)
	if len(key) == 0 {
		return errors.New("credstore: address is empty")
	}

	record := Record{
		WalletAddress: string(key),
		ApiKey:        creds.Key,
		ApiSecret:     creds.Secret,
		ApiPassphrase: creds.Passphrase,
		UpdatedAt:     time.Now().UTC(),
	}
	val, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "credstore: marshal record")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Get 读取凭证；不存在时返回 (nil, false, nil)
func (s *Store) Get(address string) (*Record, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errors.New("credstore: not opened")
	}
	key := normalizeKey(address)

	var record Record
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &record); err != nil {
				return errors.Wrap(err, "credstore: unmarshal record")
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &record, true, nil
}

// Count 统计行数（测试与诊断用）
func (s *Store) Count() (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("credstore: not opened")
	}
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// ParseKey 解析 32 字节静态加密密钥（base64 或 hex），空输入返回 nil
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	rawHex := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(rawHex); err == nil {
		if len(b) == 32 {
			return b, nil
		}
		return nil, fmt.Errorf("密钥长度必须是 32 字节，实际 %d", len(b))
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("密钥长度必须是 32 字节，实际 %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("密钥必须是 base64(32 字节) 或 hex(32 字节)")
}
