package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramID      = "id"
	paramVideoID = "videoID"
	paramUserID  = "userID"

	queryState = "state"
	queryCode  = "code"

	stateCookieName = "oauth_state"
)

const (
	msgInvalidProjectID        = "invalid project id"
	msgInvalidVideoID          = "invalid video id"
	msgInvalidUserID           = "invalid user id"
	msgProjectNotFound         = "project not found"
	msgVideoNotFound           = "video not found"
	msgMemberNotFound          = "member not found"
	msgProjectNameRequired     = "project name is required"
	msgVideoTitleRequired      = "video title is required"
	msgOwnerOnly               = "only the project owner can perform this action"
	msgNotProjectMember        = "not a member of this project"
	msgNoPermittedFields       = "none of the requested fields are permitted"
	msgNoUpdateFields          = "no fields to update"
	msgUploadNotRequired       = "file part count must be positive to start an upload"
	msgMissingOAuthState       = "missing or mismatched oauth state"
	msgMissingOAuthCode        = "missing authorization code"
	msgGenerateTokenFail       = "failed to issue session token"
	msgListProjectsFail        = "failed to list projects"
	msgUpdateProjectFail       = "failed to update project"
	msgDeleteProjectFail       = "failed to delete project"
	msgListMembersFail         = "failed to list members"
	msgUpdatePermissionsFail   = "failed to update permissions"
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
)
