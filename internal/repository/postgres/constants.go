package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound    = "user not found"
	errProjectNotFound = "project not found"
	errMemberNotFound  = "member not found"
	errVideoNotFound   = "video not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedUpsertUserFmt       = "failed to upsert user: %w"
	errFailedGetUserFmt          = "failed to get user: %w"
	errFailedUpdateTokensFmt     = "failed to update user tokens: %w"
	errFailedCreateProjectFmt    = "failed to create project: %w"
	errFailedGetProjectFmt       = "failed to get project: %w"
	errFailedListProjectsFmt     = "failed to list projects: %w"
	errFailedScanProjectFmt      = "failed to scan project: %w"
	errFailedUpdateProjectFmt    = "failed to update project: %w"
	errFailedDeleteProjectFmt    = "failed to delete project: %w"
	errFailedSetEditedVideoFmt   = "failed to set edited video: %w"
	errFailedAddOwnerFmt         = "failed to add owner member: %w"
	errFailedCreateInviteFmt     = "failed to create invite: %w"
	errFailedSupersedeInviteFmt  = "failed to supersede invite: %w"
	errFailedGetMemberFmt        = "failed to get member: %w"
	errFailedListMembersFmt      = "failed to list members: %w"
	errFailedScanMemberFmt       = "failed to scan member: %w"
	errFailedAcceptInviteFmt     = "failed to accept invite: %w"
	errFailedUpdateGrantsFmt     = "failed to update member permissions: %w"
	errFailedCreateVideoFmt      = "failed to create video: %w"
	errFailedGetVideoFmt         = "failed to get video: %w"
	errFailedUpdateVideoFmt      = "failed to update video: %w"
	errFailedSetApprovalFmt      = "failed to set approval: %w"
	errFailedMarkUploadResultFmt = "failed to mark upload result: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedUpsertUser           = func(err error) error { return fmt.Errorf(errFailedUpsertUserFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedUpdateTokens         = func(err error) error { return fmt.Errorf(errFailedUpdateTokensFmt, err) }
	errFailedCreateProject        = func(err error) error { return fmt.Errorf(errFailedCreateProjectFmt, err) }
	errFailedGetProject           = func(err error) error { return fmt.Errorf(errFailedGetProjectFmt, err) }
	errFailedListProjects         = func(err error) error { return fmt.Errorf(errFailedListProjectsFmt, err) }
	errFailedScanProject          = func(err error) error { return fmt.Errorf(errFailedScanProjectFmt, err) }
	errFailedUpdateProject        = func(err error) error { return fmt.Errorf(errFailedUpdateProjectFmt, err) }
	errFailedDeleteProject        = func(err error) error { return fmt.Errorf(errFailedDeleteProjectFmt, err) }
	errFailedSetEditedVideo       = func(err error) error { return fmt.Errorf(errFailedSetEditedVideoFmt, err) }
	errFailedAddOwner             = func(err error) error { return fmt.Errorf(errFailedAddOwnerFmt, err) }
	errFailedCreateInvite         = func(err error) error { return fmt.Errorf(errFailedCreateInviteFmt, err) }
	errFailedSupersedeInvite      = func(err error) error { return fmt.Errorf(errFailedSupersedeInviteFmt, err) }
	errFailedGetMember            = func(err error) error { return fmt.Errorf(errFailedGetMemberFmt, err) }
	errFailedListMembers          = func(err error) error { return fmt.Errorf(errFailedListMembersFmt, err) }
	errFailedScanMember           = func(err error) error { return fmt.Errorf(errFailedScanMemberFmt, err) }
	errFailedAcceptInvite         = func(err error) error { return fmt.Errorf(errFailedAcceptInviteFmt, err) }
	errFailedUpdateGrants         = func(err error) error { return fmt.Errorf(errFailedUpdateGrantsFmt, err) }
	errFailedCreateVideo          = func(err error) error { return fmt.Errorf(errFailedCreateVideoFmt, err) }
	errFailedGetVideo             = func(err error) error { return fmt.Errorf(errFailedGetVideoFmt, err) }
	errFailedUpdateVideo          = func(err error) error { return fmt.Errorf(errFailedUpdateVideoFmt, err) }
	errFailedSetApproval          = func(err error) error { return fmt.Errorf(errFailedSetApprovalFmt, err) }
	errFailedMarkUploadResult     = func(err error) error { return fmt.Errorf(errFailedMarkUploadResultFmt, err) }
)
