package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Identity is a verified account as the identity provider sees it.
// Metadata carries provisioning-time attributes (role, district_code,
// full_name) used as a fallback when no profile row exists yet.
type Identity struct {
	ID       string
	Email    string
	Metadata map[string]interface{}
}

// IdentityProvider verifies credentials and manages account records
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
	CreateIdentity(ctx context.Context, email, password string, metadata map[string]interface{}) (*Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// Authenticator exchanges an email/password pair for a verified
// identity and a signed token.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, string, error)
}

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// identityRecord is the stored shape of an account in the "identities"
// collection. Passwords are bcrypt hashes.
type identityRecord struct {
	ID        string                 `bson:"_id"`
	Email     string                 `bson:"email"`
	Password  string                 `bson:"password"`
	Metadata  map[string]interface{} `bson:"metadata"`
	CreatedAt time.Time              `bson:"created_at"`
}

// JWTProvider is an IdentityProvider backed by HS256 tokens and a
// MongoDB identities collection.
type JWTProvider struct {
	Secret     []byte
	Identities *mongo.Collection
	TokenTTL   time.Duration
}

const defaultTokenTTL = 72 * time.Hour

func NewJWTProvider(secret []byte, identities *mongo.Collection) *JWTProvider {
	return &JWTProvider{Secret: secret, Identities: identities, TokenTTL: defaultTokenTTL}
}

// VerifyToken parses and validates a signed token and rebuilds the
// identity from its claims. No store access is performed here; the
// profile lookup belongs to the Resolver.
func (p *JWTProvider) VerifyToken(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{ID: sub}
	identity.Email, _ = claims["email"].(string)
	if meta, ok := claims["metadata"].(map[string]interface{}); ok {
		identity.Metadata = meta
	}
	return identity, nil
}

// IssueToken signs a token for the given identity, embedding its
// metadata so resolution can work before a profile row exists.
func (p *JWTProvider) IssueToken(identity *Identity) (string, error) {
	ttl := p.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      identity.ID,
		"email":    identity.Email,
		"metadata": identity.Metadata,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(p.Secret)
}

func (p *JWTProvider) CreateIdentity(ctx context.Context, email, password string, metadata map[string]interface{}) (*Identity, error) {
	count, err := p.Identities.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	record := identityRecord{
		ID:        primitive.NewObjectID().Hex(),
		Email:     email,
		Password:  string(hashed),
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	if _, err := p.Identities.InsertOne(ctx, record); err != nil {
		return nil, err
	}
	return &Identity{ID: record.ID, Email: record.Email, Metadata: record.Metadata}, nil
}

func (p *JWTProvider) DeleteIdentity(ctx context.Context, id string) error {
	result, err := p.Identities.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("identity %s not found", id)
	}
	return nil
}

// Authenticate verifies an email/password pair against the identities
// collection and returns a freshly signed token.
func (p *JWTProvider) Authenticate(ctx context.Context, email, password string) (*Identity, string, error) {
	var record identityRecord
	err := p.Identities.FindOne(ctx, bson.M{"email": email}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(record.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	identity := &Identity{ID: record.ID, Email: record.Email, Metadata: record.Metadata}
	token, err := p.IssueToken(identity)
	if err != nil {
		return nil, "", err
	}
	return identity, token, nil
}
