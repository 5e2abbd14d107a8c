package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	Member   *MemberRepository
	Donation *DonationRepository
	Contact  *ContactRepository
	Chat     *ChatRepository
	User     *UserRepository
	Event    *EventRepository
	Outbox   *OutboxRepository
	Token    *TokenRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Member:   NewMemberRepository(db),
		Donation: NewDonationRepository(db),
		Contact:  NewContactRepository(db),
		Chat:     NewChatRepository(db),
		User:     NewUserRepository(db),
		Event:    NewEventRepository(db),
		Outbox:   NewOutboxRepository(db),
		Token:    NewTokenRepository(db),
	}
}
