/*
Package persist
File: schema.go
Description:
    JSON Schema for the persisted save blob (after decompression). Compiled
    once at init and applied to every decode.
*/

package persist

const saveSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "resources",
    "ownedProperties",
    "purchasedUpgrades",
    "inventory",
    "unlockedWorlds",
    "currentWorldId"
  ],
  "properties": {
    "resources": {
      "type": "object",
      "propertyNames": {
        "enum": ["GOLD", "MANA", "CRYSTALS", "DATA_FRAGMENTS"]
      },
      "additionalProperties": {
        "type": "number",
        "minimum": 0
      }
    },
    "ownedProperties": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["count", "worldId"],
        "properties": {
          "count": { "type": "integer", "minimum": 0 },
          "worldId": { "type": "string" }
        }
      }
    },
    "purchasedUpgrades": {
      "type": "array",
      "items": { "type": "string" }
    },
    "inventory": {
      "type": "array",
      "items": { "type": "string" }
    },
    "unlockedWorlds": {
      "type": "array",
      "items": { "type": "string" },
      "minItems": 1
    },
    "currentWorldId": {
      "type": "string",
      "minLength": 1
    },
    "npcDialogues": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "worldDescriptions": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "itemFlavorTexts": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "propertyFlavorTexts": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "apiKeyState": {
      "enum": ["loading", "ready", "error"]
    }
  }
}`
